package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/essaydesk/internal/filex"
)

// Stats prints the group statistics of the logged in teacher.
func (a *App) Stats(ctx context.Context) error {
	if err := a.requireRole(roleTeacher); err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	rows, err := a.client.GetGroupStats(ctx)
	if err != nil {
		return a.checkSession(err)
	}

	renderGroupStats(a.out, rows)
	return nil
}

// Export asks the server for a CSV export of the group statistics and prints
// the download link. With a name argument the file is also downloaded into
// the local exports directory.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireRole(roleTeacher); err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	url, err := a.client.ExportGroupStats(ctx)
	if err != nil {
		return a.checkSession(err)
	}

	fmt.Fprintf(a.out, "Export ready: %s\n", url)

	if len(args) == 0 {
		return nil
	}

	path, err := filex.ExportPath(args[0])
	if err != nil {
		return err
	}

	data, err := a.download(ctx, url)
	if err != nil {
		return fmt.Errorf("error downloading export: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("error saving export: %w", err)
	}

	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}
