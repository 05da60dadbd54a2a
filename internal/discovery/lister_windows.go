//go:build windows

package discovery

import (
	"context"
	"fmt"
	"os/exec"
)

// pnpLister queries the Windows PnP device inventory through PowerShell.
// Get-PnpDevice sees devices regardless of which driver stack claimed
// them, which is what makes this the reliable fallback when the vendor
// driver's own enumeration reports nothing (spooler-managed devices are
// invisible to it).
type pnpLister struct {
	vendor string
}

// NewOSLister returns the Windows PnP device lister filtered by the given
// friendly-name substring.
func NewOSLister(vendor string) DeviceLister {
	return &pnpLister{vendor: vendor}
}

func (l *pnpLister) List(ctx context.Context) ([]RawDevice, error) {
	script := fmt.Sprintf(
		`Get-PnpDevice -PresentOnly | Where-Object { $_.FriendlyName -like '*%s*' } | ForEach-Object { $_.FriendlyName + "`+"`t"+`" + $_.InstanceId }`,
		l.vendor)

	cmd := exec.CommandContext(ctx, "powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pnp query failed: %w", err)
	}

	return parseDeviceLines(string(out)), nil
}
