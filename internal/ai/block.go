package ai

// Block is one unit of model input: either raw binary with a MIME type or a
// plain text instruction. The model receives blocks in slice order.
type Block struct {
	Text string
	Data []byte
	MIME string
}

// TextBlock builds a plain text instruction block.
func TextBlock(text string) Block {
	return Block{Text: text}
}

// DataBlock builds a binary block carrying a MIME type.
func DataBlock(data []byte, mime string) Block {
	return Block{Data: data, MIME: mime}
}

// IsData reports whether the block carries binary content.
func (b Block) IsData() bool {
	return len(b.Data) > 0
}
