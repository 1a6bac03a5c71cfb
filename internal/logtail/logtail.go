package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns the whole file. A missing file is empty.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one parsed log line.
type Entry struct {
	Raw    string
	Time   string
	Level  string
	Cat    string
	Msg    string
	Fields []Field // everything else, in line order
}

// Field is a key=value pair from a log line.
type Field struct {
	Key   string
	Value string
}

var levelRank = map[string]int{
	"trace":   0,
	"debug":   1,
	"info":    2,
	"warning": 3,
	"warn":    3,
	"error":   4,
	"fatal":   5,
	"panic":   6,
}

// AtLeast reports whether the entry's level is at or above min. Lines
// without a recognisable level always pass.
func (e Entry) AtLeast(min string) bool {
	have, ok := levelRank[e.Level]
	if !ok {
		return true
	}
	return have >= levelRank[strings.ToLower(min)]
}

// Parse splits a key=value log line as written by the application logger.
// Values may be double-quoted with backslash escapes. Unparseable lines come
// back with only Raw and Msg set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	pairs, ok := splitPairs(line)
	if !ok || len(pairs) == 0 {
		e.Msg = line
		return e
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			e.Time = p.Value
		case "level":
			e.Level = p.Value
		case "cat":
			e.Cat = p.Value
		case "msg":
			e.Msg = p.Value
		default:
			e.Fields = append(e.Fields, p)
		}
	}
	return e
}

// Tail reads the last maxLines lines and keeps those at or above minLevel
// and, when cat is set, in that category.
func Tail(path string, maxLines int, minLevel, cat string) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		e := Parse(line)
		if !e.AtLeast(minLevel) {
			continue
		}
		if cat != "" && e.Cat != cat {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func splitPairs(line string) ([]Field, bool) {
	var out []Field
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		eq := strings.IndexByte(line[i:], '=')
		if eq <= 0 {
			return nil, false
		}
		key := line[i : i+eq]
		if strings.ContainsAny(key, " \"") {
			return nil, false
		}
		i += eq + 1

		var val string
		if i < len(line) && line[i] == '"' {
			var b strings.Builder
			i++
			closed := false
			for i < len(line) {
				c := line[i]
				if c == '\\' && i+1 < len(line) {
					b.WriteByte(line[i+1])
					i += 2
					continue
				}
				if c == '"' {
					i++
					closed = true
					break
				}
				b.WriteByte(c)
				i++
			}
			if !closed {
				return nil, false
			}
			val = b.String()
		} else {
			end := strings.IndexByte(line[i:], ' ')
			if end < 0 {
				end = len(line) - i
			}
			val = line[i : i+end]
			i += end
		}
		out = append(out, Field{Key: key, Value: val})
	}
	return out, true
}
