package overflow

// Codec translates values to and from fixed-width records. Every record in
// one log has the same width, so the backing file is decodable as a plain
// array. Fields are laid out with an explicit byte order; the file is never
// a memory dump.
type Codec[T any] interface {
	// Size is the exact encoded width in bytes.
	Size() int
	// AppendRecord appends exactly Size bytes encoding v to dst.
	AppendRecord(dst []byte, v T) []byte
	// DecodeRecord decodes one record from the first Size bytes of src.
	DecodeRecord(src []byte) T
}
