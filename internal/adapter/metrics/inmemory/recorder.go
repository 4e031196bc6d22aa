package inmemory

import "sync"

type Snapshot struct {
	InstructionTotal      uint64            `json:"instruction_total"`
	InstructionApplied    uint64            `json:"instruction_applied"`
	InstructionRejected   uint64            `json:"instruction_rejected"`
	AppliedByInstruction  map[string]uint64 `json:"applied_by_instruction"`
	RejectedByInstruction map[string]uint64 `json:"rejected_by_instruction"`
	RejectedByCode        map[string]uint64 `json:"rejected_by_code"`
}

type Recorder struct {
	mu                    sync.Mutex
	applied               map[string]uint64
	rejectedByInstruction map[string]uint64
	rejectedByCode        map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		applied:               map[string]uint64{},
		rejectedByInstruction: map[string]uint64{},
		rejectedByCode:        map[string]uint64{},
	}
}

func (r *Recorder) RecordApplied(instruction string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied[instruction]++
}

func (r *Recorder) RecordRejected(instruction, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejectedByInstruction[instruction]++
	r.rejectedByCode[code]++
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		AppliedByInstruction:  make(map[string]uint64, len(r.applied)),
		RejectedByInstruction: make(map[string]uint64, len(r.rejectedByInstruction)),
		RejectedByCode:        make(map[string]uint64, len(r.rejectedByCode)),
	}
	for k, v := range r.applied {
		out.AppliedByInstruction[k] = v
		out.InstructionApplied += v
	}
	for k, v := range r.rejectedByInstruction {
		out.RejectedByInstruction[k] = v
		out.InstructionRejected += v
	}
	for k, v := range r.rejectedByCode {
		out.RejectedByCode[k] = v
	}
	out.InstructionTotal = out.InstructionApplied + out.InstructionRejected
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
