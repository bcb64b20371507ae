// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
)

// Entry is one decoded log line.
type Entry struct {
	Timestamp string
	Level     string
	Logger    string
	Message   string
	Fields    map[string]any
}

// ReadEntries returns the newest limit entries of the log file, newest
// first. A non-empty level keeps only entries of that level. A missing
// file yields no entries.
func ReadEntries(path, level string, limit int) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, err
	}
	defer file.Close()

	level = strings.ToUpper(level)
	var entries []Entry

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var raw map[string]any
		if json.Unmarshal(scanner.Bytes(), &raw) != nil {
			continue
		}
		e := Entry{Fields: make(map[string]any)}
		for k, v := range raw {
			s, _ := v.(string)
			switch k {
			case "timestamp":
				e.Timestamp = s
			case "level":
				e.Level = s
			case "logger":
				e.Logger = s
			case "message":
				e.Message = s
			case "caller":
			default:
				e.Fields[k] = v
			}
		}
		if level != "" && e.Level != level {
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
