package retrieval

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// LoadCorpus reads a plain-text catalog corpus and returns one document per
// paragraph (blank-line separated). Each document's source is the given
// locator prefix plus a 1-based paragraph number, e.g. "catalog#12", so
// answers can cite where a passage came from.
func LoadCorpus(r io.Reader, source string) ([]Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var docs []Document
	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		docs = append(docs, Document{
			Text:   strings.Join(para, " "),
			Source: fmt.Sprintf("%s#%d", source, len(docs)+1),
		})
		para = para[:0]
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		para = append(para, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	flush()
	return docs, nil
}
