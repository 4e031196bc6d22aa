package ports

type InstructionMetrics interface {
	RecordApplied(instruction string)
	RecordRejected(instruction, code string)
}
