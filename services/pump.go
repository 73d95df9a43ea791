package services

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// pumpLines reads line-delimited text from one process stream and hands
// each line to fn. Lines that are not valid UTF-8 (mangled terminal
// control sequences, mid-rune pipe truncation) are dropped rather than
// fed to the line rules. It returns when the stream closes, which
// happens naturally when the process exits or is killed. Read errors
// are not fatal to the job; the caller only logs them.
func pumpLines(r io.Reader, fn func(line string)) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	scanner.Split(splitByNewlineOrCR)
	for scanner.Scan() {
		if !utf8.Valid(scanner.Bytes()) {
			continue
		}
		fn(scanner.Text())
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// splitByNewlineOrCR treats both \n and \r as line terminators so
// carriage-return progress redraws become separate lines.
func splitByNewlineOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	for i := 0; i < len(data); i++ {
		if data[i] == '\n' || data[i] == '\r' {
			if i == 0 {
				return 1, nil, nil
			}
			return i + 1, data[:i], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}
