package common

var refundPrefix = []byte{0x01}

// RefundTransferDetails returns transfer details attached to a storage
// deposit refund. The stash id and the call sequence number make the
// details unique per triggering call, so a duplicated refund entry can
// be recognized by its receiver.
func RefundTransferDetails(stashID, seq int) []byte {
	var id interface{} = stashID
	var s interface{} = seq

	details := append(refundPrefix, id.([]byte)...)
	return append(details, s.([]byte)...)
}
