// The format command: formatter-only mode, with optional auto-fix.
package main

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/gauntlet/internal/toolchain"
)

var formatFix bool

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Check source formatting, or fix it with --fix",
	RunE:  runFormat,
}

func init() {
	formatCmd.Flags().BoolVar(&formatFix, "fix", false, "rewrite files in place instead of reporting them")
}

func runFormat(cmd *cobra.Command, args []string) error {
	if formatFix {
		argv := toolchain.FmtFixArgs()
		c := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
		c.Stdout = cmd.OutOrStdout()
		c.Stderr = cmd.ErrOrStderr()
		if err := c.Run(); err != nil {
			return fmt.Errorf("running %s: %w", argv[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Formatting applied")
		return nil
	}

	argv := toolchain.FmtCheckArgs()
	c := exec.CommandContext(cmd.Context(), argv[0], argv[1:]...)
	var buf bytes.Buffer
	c.Stdout = &buf
	c.Stderr = cmd.ErrOrStderr()
	if err := c.Run(); err != nil {
		return fmt.Errorf("running %s: %w", argv[0], err)
	}

	listed := strings.TrimSpace(buf.String())
	if listed == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "All files formatted")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), listed)
	files := len(strings.Split(listed, "\n"))
	return fmt.Errorf("%d file(s) need formatting; run `gauntlet format --fix`", files)
}
