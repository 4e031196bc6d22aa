package gormrepo

import "github.com/gagliardetto/solana-go"

// keyParser collects base58 decode failures across a whole row mapping,
// so converters read as plain field assignments with one error check at
// the end.
type keyParser struct {
	err error
}

func (p *keyParser) key(s string) solana.PublicKey {
	if p.err != nil || s == "" {
		return solana.PublicKey{}
	}
	k, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		p.err = err
		return solana.PublicKey{}
	}
	return k
}

func (p *keyParser) keyPtr(s *string) *solana.PublicKey {
	if p.err != nil || s == nil {
		return nil
	}
	k := p.key(*s)
	if p.err != nil {
		return nil
	}
	return &k
}

func keyPtrString(k *solana.PublicKey) *string {
	if k == nil {
		return nil
	}
	s := k.String()
	return &s
}
