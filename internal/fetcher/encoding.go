package fetcher

import (
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// decodeBody decodes body using the charset named in the Content-Type
// header, falling back to UTF-8 with replacement when the charset is
// missing, unrecognized, or fails to decode.
func decodeBody(body []byte, contentType string) string {
	utf8Fallback := strings.ToValidUTF8(string(body), "�")

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return utf8Fallback
	}

	charset := strings.ToLower(params["charset"])
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return utf8Fallback
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return utf8Fallback
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return utf8Fallback
	}
	return string(decoded)
}
