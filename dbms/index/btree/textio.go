package btree

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

// LoadFile reads key/value pairs from a flat text file, one "key,value"
// record per line, and inserts each into the index. Lines that do not
// parse — wrong field count, non-integer fields — and duplicate keys are
// skipped with a diagnostic; they never abort the batch. Returns how many
// pairs were inserted and how many lines were skipped.
func (t *Tree) LoadFile(path string) (loaded, skipped int, err error) {
	if t.file == nil {
		return 0, 0, ErrNotOpen
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("btree: load %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		key, value, perr := parsePair(line)
		if perr != nil {
			log.Printf("btree: %s:%d: skipping %q: %v", path, lineNo, line, perr)
			skipped++
			continue
		}
		if ierr := t.Insert(key, value); ierr != nil {
			if errors.Is(ierr, ErrDuplicateKey) {
				log.Printf("btree: %s:%d: skipping %q: %v", path, lineNo, line, ierr)
				skipped++
				continue
			}
			return loaded, skipped, ierr
		}
		loaded++
	}
	if serr := sc.Err(); serr != nil {
		return loaded, skipped, fmt.Errorf("btree: load %s: %w", path, serr)
	}
	return loaded, skipped, nil
}

// ExtractFile writes every pair to a flat text file in traversal order,
// one "key,value" record per line. An existing file is overwritten.
func (t *Tree) ExtractFile(path string) error {
	pairs, err := t.Traverse()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("btree: extract %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	for _, p := range pairs {
		fmt.Fprintf(w, "%d,%d\n", p.Key, p.Value)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("btree: extract %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("btree: extract %s: %w", path, err)
	}
	return nil
}

// parsePair splits a "key,value" line into its two unsigned integers.
func parsePair(line string) (key, value uint64, err error) {
	fields := strings.Split(line, ",")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: want 2 fields, got %d", ErrInvalidInput, len(fields))
	}
	key, err = strconv.ParseUint(strings.TrimSpace(fields[0]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: key: %v", ErrInvalidInput, err)
	}
	value, err = strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: value: %v", ErrInvalidInput, err)
	}
	return key, value, nil
}
