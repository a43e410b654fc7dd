package response

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/Brownie44l1/webserver/internal/resolve"
)

const maxLineSize = 1 << 20

// File serves rp.AbsolutePath with its lines re-terminated by CRLF. Any open
// or read failure gives a 204 with no body.
func File(rp resolve.ResolvedPath) (*Response, error) {
	body, err := readLines(rp.AbsolutePath)
	if err != nil {
		return New(StatusNoContent), err
	}

	contentType := ContentTypePlain
	if resolve.IsHTML(rp.Extension) {
		contentType = ContentTypeHTML
	}
	return withBody(New(StatusOK), contentType, body, -1), nil
}

func readLines(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		buf.Write(scanner.Bytes())
		buf.WriteString(crlf)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return buf.Bytes(), nil
}
