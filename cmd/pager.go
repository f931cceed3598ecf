package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// isTerminal checks if stdout is a terminal
func isTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// output prints content, through a pager when stdout is a terminal and
// paging was not disabled.
func output(content string, noPager bool) error {
	if noPager || !isTerminal() {
		fmt.Print(content)
		return nil
	}
	return displayWithPager(content)
}

// displayWithPager displays content using $PAGER, less or more
func displayWithPager(content string) error {
	pagerCmd := os.Getenv("PAGER")
	if pagerCmd == "" {
		for _, pager := range []string{"less", "more"} {
			if _, err := exec.LookPath(pager); err == nil {
				pagerCmd = pager
				break
			}
		}
	}

	if pagerCmd == "" {
		fmt.Print(content)
		return nil
	}

	// -F quits right away when everything fits on one screen
	var args []string
	if strings.Contains(pagerCmd, "less") {
		args = []string{"-R", "-S", "-F", "-X"}
	}

	cmd := exec.Command(pagerCmd, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}
