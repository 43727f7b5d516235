package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrLicenseRefused is returned when the user declines the license agreement.
var ErrLicenseRefused = errors.New("license agreement not accepted")

const licenseText = `LICENSE AGREEMENT

This utility is provided "as is", without warranty of any kind, express or
implied. You are responsible for the data you upload with it and for
complying with the terms of service of the platform you upload to.
The authors are not liable for any claim, damages or other liability
arising from the use of this utility.
`

// acceptLicense checks that the license agreement was accepted, asking once
// when no acceptance file exists. In server mode acceptance is implied.
func acceptLicense(path string, server bool, p Prompter, out io.Writer) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if !server {
		fmt.Fprint(out, licenseText)
		for {
			answer, err := p.Prompt("Do you agree to the above license agreement (Yes/No): ")
			if errors.Is(err, ErrInputClosed) {
				return ErrLicenseRefused
			}
			if err != nil {
				return err
			}
			yes, ok := answerYesNo(answer)
			if !ok {
				continue
			}
			if !yes {
				return ErrLicenseRefused
			}
			break
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create license directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(licenseText), 0o644); err != nil {
		return fmt.Errorf("failed to record license acceptance: %w", err)
	}
	return nil
}
