package blocks

// Normalize returns a deep copy of b with every metadata field removed,
// from b itself, from its content object and from all nested children.
// Request-shape blocks carry no metadata, so for them Normalize is a plain
// copy. b is not modified.
func Normalize(b Block) Block {
	out := b.Clone()
	stripMetadata(&out)

	return out
}

func stripMetadata(b *Block) {
	b.Object = ""
	b.ID = ""
	b.Parent = nil
	b.CreatedTime = ""
	b.CreatedBy = nil
	b.LastEditedTime = ""
	b.LastEditedBy = nil
	b.Archived = false
	b.HasChildren = false

	if b.Content.Extra != nil {
		for _, key := range metadataFields {
			delete(b.Content.Extra, key)
		}

		if len(b.Content.Extra) == 0 {
			b.Content.Extra = nil
		}
	}

	for i := range b.Content.Children {
		stripMetadata(&b.Content.Children[i])
	}
}
