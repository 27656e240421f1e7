package constants_test

import (
	"fmt"
	"path/filepath"

	"github.com/agentstation/coreoffset/pkg/constants"
)

// Example shows how the docs layout resolves a board's firmware file.
func Example() {
	path := filepath.Join(constants.DatabaseDir, "Mac-ABC123", constants.DatabaseFile)
	fmt.Println(path)
	fmt.Println(constants.Core0Upper, constants.Core0Lower)

	// Output:
	// SMCDatabase/Mac-ABC123/main.txt
	// TC0C TC0c
}
