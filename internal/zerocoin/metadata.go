package zerocoin

// SpendMetaData binds a spend to the accumulator checkpoint and transaction it belongs to.
// The engine passes it through untouched.
type SpendMetaData struct {
	accumulatorID [32]byte
	txHash        [32]byte
}

// NewSpendMetaData pairs an accumulator identifier with a transaction hash.
func NewSpendMetaData(accumulatorID, txHash [32]byte) SpendMetaData {
	return SpendMetaData{accumulatorID: accumulatorID, txHash: txHash}
}

func (m SpendMetaData) AccumulatorID() [32]byte { return m.accumulatorID }

func (m SpendMetaData) TxHash() [32]byte { return m.txHash }
