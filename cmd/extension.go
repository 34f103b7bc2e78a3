package cmd

import (
	"errors"
	"os"
	"os/exec"
	"strconv"

	"github.com/sirupsen/logrus"
)

// RunExtension attempts to find and execute an external fsc-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The global flags are passed to the extension as environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	logger := SetupLogging()
	externalCmdName := "fsc-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		logger.Debugf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, EnvTransactionsFile+"="+TransactionsPath())
	cmd.Env = append(cmd.Env, EnvFiscalConfig+"="+FiscalConfigPath())
	cmd.Env = append(cmd.Env, EnvCurrency+"="+Currency())
	cmd.Env = append(cmd.Env, EnvVerbose+"="+strconv.FormatBool(*Verbose))

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		logger.WithError(err).WithFields(logrus.Fields{"extension": lp}).Error("Extension.Error")
		return true, 1
	}
	return true, 0
}
