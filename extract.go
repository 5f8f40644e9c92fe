package imagesession

// Image is a single binary image payload extracted from a response.
type Image struct {
	// Data contains the raw image bytes
	Data []byte

	// MIMEType of the image
	MIMEType string

	// Index is the position in candidate-then-part order (0-indexed)
	Index int
}

// ExtractImage returns the first inline image in the response, walking
// candidates in order and parts within each candidate in order. The walk is
// deterministic: calling it twice on the same response yields the same
// result.
//
// A structurally valid response with no inline part is a legitimate outcome
// (the service may answer text-only, e.g. a safety refusal); it is reported
// as ErrNoImageProduced so callers can branch on it, typically by showing
// AggregatedText as the explanation.
func ExtractImage(resp *Response) (Image, error) {
	if resp == nil {
		return Image{}, ErrNoImageProduced
	}
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Parts {
			if part.Kind() != PartKindInline {
				continue
			}
			return Image{
				Data:     part.Inline.Data,
				MIMEType: part.Inline.MIMEType,
			}, nil
		}
	}
	return Image{}, ErrNoImageProduced
}

// ExtractImages returns every inline image in the response, in
// candidate-then-part order. The first element is exactly what ExtractImage
// would return. An image-free response yields an empty slice, not an error.
func ExtractImages(resp *Response) []Image {
	if resp == nil {
		return nil
	}
	var images []Image
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Parts {
			if part.Kind() != PartKindInline {
				continue
			}
			images = append(images, Image{
				Data:     part.Inline.Data,
				MIMEType: part.Inline.MIMEType,
				Index:    len(images),
			})
		}
	}
	return images
}

// AggregatedText returns the first non-empty text part across candidates,
// used for diagnostic and grounding display. Absence of text is not an
// error; the empty string is returned.
func AggregatedText(resp *Response) string {
	if resp == nil {
		return ""
	}
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Parts {
			if part.Kind() == PartKindText {
				return part.Text
			}
		}
	}
	return ""
}
