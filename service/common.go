package service

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"hodolog/app/config"

	"github.com/spf13/cobra"
)

// confirm asks a yes/no question on the command's input
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// badgerPath returns the on-disk badger directory, or an error for other stores
func badgerPath(cfg *config.Store, op string) (string, error) {
	if cfg.Driver != "badger" || cfg.InMemory {
		return "", fmt.Errorf("%s is only supported by the on-disk badger store (driver %q)", op, cfg.Driver)
	}
	return cfg.Path, nil
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
