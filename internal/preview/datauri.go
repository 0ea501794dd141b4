package preview

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	apperrors "document-engine/internal/common/errors"
)

// BuildDataURI encodes a successful preview payload as a single
// self-describing data: URI string.
func BuildDataURI(result *Result) (string, error) {
	if result == nil || !result.Success {
		return "", apperrors.UnsupportedError("cannot build a data URI from a failed preview")
	}

	var mime string
	var payload []byte

	switch result.Format {
	case FormatPDF:
		mime = "application/pdf"
		raw, ok := result.Data.([]byte)
		if !ok {
			return "", apperrors.InternalError("pdf preview payload is not a byte stream", nil)
		}
		payload = raw

	case FormatImage, FormatThumbnail:
		mime = "image/png"
		raw, ok := result.Data.([]byte)
		if !ok {
			return "", apperrors.InternalError("image preview payload is not a byte stream", nil)
		}
		payload = raw

	case FormatHTML:
		mime = "text/html"
		text, ok := result.Data.(string)
		if !ok {
			return "", apperrors.InternalError("html preview payload is not a string", nil)
		}
		payload = []byte(text)

	case FormatJSON:
		mime = "application/json"
		serialized, err := json.Marshal(result.Data)
		if err != nil {
			return "", apperrors.InternalError("json preview payload is not serializable", err)
		}
		payload = serialized

	default:
		return "", apperrors.UnsupportedError(
			fmt.Sprintf("no data URI encoding for format %q", result.Format))
	}

	return fmt.Sprintf("data:%s;base64,%s", mime,
		base64.StdEncoding.EncodeToString(payload)), nil
}
