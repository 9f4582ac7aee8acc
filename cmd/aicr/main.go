package main

import (
	"os"

	"github.com/shuguang-lv/ai-code-review/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
