package main

import (
	"github.com/spf13/cobra"

	"github.com/palemoky/math-battle/internal/ui"
)

func main() {
	cobra.CheckErr(newCmd(ui.Run).Execute())
}
