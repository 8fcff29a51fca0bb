// Command bindex is an interactive shell around the block-file B-tree
// index: create or open an index file, then insert, search, load, print
// and extract key/value pairs.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bindexdb/bindex/dbms/index/btree"
	"github.com/bindexdb/bindex/dbms/pager"
)

const menu = `
Please choose a command:
1. Create  - Create a new index file
2. Open    - Open an existing index file
3. Insert  - Insert a key-value pair
4. Search  - Search for a key in the index
5. Load    - Load key-value pairs from a file
6. Print   - Print all key-value pairs in the index
7. Extract - Save all key-value pairs to a file
8. Quit    - Exit the program
`

func main() {
	rl, err := readline.New("bindex> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "bindex: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	var tree *btree.Tree
	defer func() {
		if tree != nil {
			tree.Close()
		}
	}()

	for {
		fmt.Print(menu)
		line, err := prompt(rl, "Enter your choice (number or command): ")
		if err != nil {
			return
		}

		switch strings.ToLower(line) {
		case "1", "create":
			tree = cmdCreate(rl, tree)
		case "2", "open":
			tree = cmdOpen(rl, tree)
		case "3", "insert":
			cmdInsert(rl, tree)
		case "4", "search":
			cmdSearch(rl, tree)
		case "5", "load":
			cmdLoad(rl, tree)
		case "6", "print":
			cmdPrint(tree)
		case "7", "extract":
			cmdExtract(rl, tree)
		case "8", "quit":
			fmt.Println("Exiting program.")
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

// prompt reads one trimmed line under a temporary prompt. io.EOF and
// readline.ErrInterrupt bubble up so the main loop can exit.
func prompt(rl *readline.Instance, label string) (string, error) {
	rl.SetPrompt(label)
	defer rl.SetPrompt("bindex> ")
	line, err := rl.Readline()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirmOverwrite asks before clobbering an existing file. A missing
// file needs no confirmation.
func confirmOverwrite(rl *readline.Instance, path string) bool {
	if _, err := os.Stat(path); err != nil {
		return true
	}
	answer, err := prompt(rl, fmt.Sprintf("File %s exists. Overwrite? (yes/no): ", path))
	if err != nil {
		return false
	}
	return strings.ToLower(answer) == "yes"
}

func parseUint(rl *readline.Instance, label string) (uint64, bool) {
	line, err := prompt(rl, label)
	if err != nil {
		return 0, false
	}
	v, err := strconv.ParseUint(line, 10, 64)
	if err != nil {
		fmt.Println("Invalid input. Please enter an unsigned integer.")
		return 0, false
	}
	return v, true
}

func cmdCreate(rl *readline.Instance, tree *btree.Tree) *btree.Tree {
	path, err := prompt(rl, "Enter index file name: ")
	if err != nil || path == "" {
		return tree
	}
	if !confirmOverwrite(rl, path) {
		fmt.Println("Operation aborted.")
		return tree
	}
	os.Remove(path)
	if tree != nil {
		tree.Close()
	}
	t, err := btree.Create(path)
	if err != nil {
		fmt.Println(err)
		return nil
	}
	fmt.Printf("Created and opened index file '%s'.\n", path)
	return t
}

func cmdOpen(rl *readline.Instance, tree *btree.Tree) *btree.Tree {
	path, err := prompt(rl, "Enter index file name: ")
	if err != nil || path == "" {
		return tree
	}
	if tree != nil {
		tree.Close()
	}
	t, err := btree.Open(path)
	if err != nil {
		switch {
		case errors.Is(err, pager.ErrNotFound):
			fmt.Printf("File %s does not exist.\n", path)
		case errors.Is(err, btree.ErrBadMagic):
			fmt.Printf("File %s is not a valid index file.\n", path)
		default:
			fmt.Println(err)
		}
		return nil
	}
	fmt.Printf("Opened and loaded index file '%s'.\n", path)
	return t
}

func cmdInsert(rl *readline.Instance, tree *btree.Tree) {
	if tree == nil {
		fmt.Println("No index file is open.")
		return
	}
	key, ok := parseUint(rl, "Enter key (unsigned integer): ")
	if !ok {
		return
	}
	value, ok := parseUint(rl, "Enter value (unsigned integer): ")
	if !ok {
		return
	}
	if err := tree.Insert(key, value); err != nil {
		if errors.Is(err, btree.ErrDuplicateKey) {
			fmt.Printf("Key %d is already in the index.\n", key)
			return
		}
		fmt.Println(err)
	}
}

func cmdSearch(rl *readline.Instance, tree *btree.Tree) {
	if tree == nil {
		fmt.Println("No index file is open.")
		return
	}
	key, ok := parseUint(rl, "Enter key (unsigned integer): ")
	if !ok {
		return
	}
	value, found, err := tree.Search(key)
	if err != nil {
		fmt.Println(err)
		return
	}
	if found {
		fmt.Printf("Found key %d with value %d.\n", key, value)
	} else {
		fmt.Println("Key not found.")
	}
}

func cmdLoad(rl *readline.Instance, tree *btree.Tree) {
	if tree == nil {
		fmt.Println("No index file is open.")
		return
	}
	path, err := prompt(rl, "Enter filename to load data from: ")
	if err != nil || path == "" {
		return
	}
	loaded, skipped, err := tree.LoadFile(path)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Loaded %d pairs (%d lines skipped).\n", loaded, skipped)
}

func cmdPrint(tree *btree.Tree) {
	if tree == nil {
		fmt.Println("No index file is open.")
		return
	}
	pairs, err := tree.Traverse()
	if err != nil {
		fmt.Println(err)
		return
	}
	if len(pairs) == 0 {
		fmt.Println("Empty index.")
		return
	}
	for _, p := range pairs {
		fmt.Printf("%d,%d\n", p.Key, p.Value)
	}
}

func cmdExtract(rl *readline.Instance, tree *btree.Tree) {
	if tree == nil {
		fmt.Println("No index file is open.")
		return
	}
	path, err := prompt(rl, "Enter filename to extract data to: ")
	if err != nil || path == "" {
		return
	}
	if !confirmOverwrite(rl, path) {
		fmt.Println("Operation aborted.")
		return
	}
	if err := tree.ExtractFile(path); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Data extracted to %s.\n", path)
}
