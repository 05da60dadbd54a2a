package command

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/labelbridge/ppla-engine/internal/label"
	"github.com/labelbridge/ppla-engine/pkg/labelformat"
)

// handlePrint handles print commands
// Usage: print <printer-id> <label-path> [--copies N]
func (e *Executor) handlePrint(args []string) *Result {
	if len(args) < 2 {
		return &Result{
			Success: false,
			Error:   "usage: print <printer-id> <label-path> [--copies N]",
		}
	}

	printerID := args[0]
	labelPath := args[1]

	// Check if printer exists
	printer := e.manager.GetPrinter(printerID)
	if printer == nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("printer not found: %s", printerID),
		}
	}

	// Load label
	var doc *labelformat.Label
	var err error

	if strings.HasPrefix(labelPath, "http://") || strings.HasPrefix(labelPath, "https://") {
		// Load from URL
		doc, err = loadLabelFromURL(labelPath)
	} else {
		// Load from file
		data, err2 := os.ReadFile(labelPath)
		if err2 != nil {
			return &Result{
				Success: false,
				Error:   fmt.Sprintf("failed to read label file: %v", err2),
			}
		}
		doc, err = labelformat.Parse(data)
	}

	if err != nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("failed to load label: %v", err),
		}
	}

	// Copies from the document, overridable on the command line
	copies := doc.Copies
	for i := 2; i < len(args)-1; i++ {
		if args[i] == "--copies" {
			copies, err = strconv.Atoi(args[i+1])
			if err != nil {
				return &Result{
					Success: false,
					Error:   fmt.Sprintf("invalid copies: %s", args[i+1]),
				}
			}
		}
	}

	// Render
	img, err := label.Render(doc)
	if err != nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("failed to render label: %v", err),
		}
	}

	// Enqueue print job
	jobID := e.queue.Enqueue(printerID, img, label.Options(doc, copies))

	return &Result{
		Success: true,
		Message: fmt.Sprintf("Print job queued: %s", jobID),
		Data: map[string]interface{}{
			"job_id":     jobID,
			"printer_id": printerID,
		},
	}
}

// handlePrinter handles printer commands
// Usage: printer list | add-network <host> [port] | rename <id> <name>
func (e *Executor) handlePrinter(args []string) *Result {
	if len(args) == 0 {
		return &Result{
			Success: false,
			Error:   "usage: printer <list|add-network|rename>",
		}
	}

	subcommand := args[0]

	switch subcommand {
	case "list":
		printers := e.manager.GetAllPrinters()
		printerList := make([]map[string]interface{}, len(printers))
		for i, p := range printers {
			printerList[i] = map[string]interface{}{
				"id":          p.ID,
				"type":        p.Type,
				"description": p.Description,
				"name":        p.Name,
			}
			switch p.Type {
			case "driver":
				printerList[i]["path"] = p.Path
				printerList[i]["index"] = p.Index
			case "network":
				printerList[i]["host"] = p.Host
				printerList[i]["port"] = p.Port
			}
		}
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Found %d printer(s)", len(printers)),
			Data: map[string]interface{}{
				"printers": printerList,
			},
		}

	case "add-network":
		if len(args) < 2 {
			return &Result{
				Success: false,
				Error:   "usage: printer add-network <host> [port]",
			}
		}
		host := args[1]
		port := 9100
		if len(args) >= 3 {
			var err error
			port, err = strconv.Atoi(args[2])
			if err != nil {
				return &Result{
					Success: false,
					Error:   fmt.Sprintf("invalid port: %s", args[2]),
				}
			}
		}
		description := fmt.Sprintf("Network: %s:%d", host, port)
		printerID := e.manager.AddNetworkPrinter(host, port, description)
		printer := e.manager.GetPrinter(printerID)
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Added network printer: %s", description),
			Data: map[string]interface{}{
				"printer_id": printerID,
				"printer":    printer,
			},
		}

	case "rename":
		if len(args) < 3 {
			return &Result{
				Success: false,
				Error:   "usage: printer rename <id> <name>",
			}
		}
		printerID := args[1]
		name := args[2]
		success := e.manager.SetPrinterName(printerID, name)
		if !success {
			return &Result{
				Success: false,
				Error:   fmt.Sprintf("printer not found: %s", printerID),
			}
		}
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Renamed printer %s to %s", printerID, name),
		}

	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown printer subcommand: %s. Use: list, add-network, rename", subcommand),
		}
	}
}

// handleJob handles job commands
// Usage: job list | status <id> | clear
func (e *Executor) handleJob(args []string) *Result {
	if len(args) == 0 {
		return &Result{
			Success: false,
			Error:   "usage: job <list|status|clear>",
		}
	}

	subcommand := args[0]

	switch subcommand {
	case "list":
		jobs := e.queue.GetAllJobs()
		jobList := make([]map[string]interface{}, len(jobs))
		for i, job := range jobs {
			jobList[i] = map[string]interface{}{
				"id":         job.ID,
				"printer_id": job.PrinterID,
				"status":     job.Status,
				"copies":     job.Options.Copies,
				"retries":    job.Retries,
				"created_at": job.CreatedAt,
			}
			if job.Error != nil {
				jobList[i]["error"] = job.Error.Error()
			}
		}
		return &Result{
			Success: true,
			Message: fmt.Sprintf("Found %d job(s)", len(jobs)),
			Data: map[string]interface{}{
				"jobs": jobList,
			},
		}

	case "status":
		if len(args) < 2 {
			return &Result{
				Success: false,
				Error:   "usage: job status <id>",
			}
		}
		jobID := args[1]
		job := e.queue.GetJob(jobID)
		if job == nil {
			return &Result{
				Success: false,
				Error:   fmt.Sprintf("job not found: %s", jobID),
			}
		}
		jobData := map[string]interface{}{
			"id":         job.ID,
			"printer_id": job.PrinterID,
			"status":     job.Status,
			"copies":     job.Options.Copies,
			"retries":    job.Retries,
			"created_at": job.CreatedAt,
		}
		if job.Error != nil {
			jobData["error"] = job.Error.Error()
		}
		return &Result{
			Success: true,
			Data:    jobData,
		}

	case "clear":
		e.queue.ClearCompleted()
		return &Result{
			Success: true,
			Message: "Cleared completed jobs",
		}

	default:
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("unknown job subcommand: %s. Use: list, status, clear", subcommand),
		}
	}
}

// handleDiscover handles discover command
// Usage: discover
func (e *Executor) handleDiscover(args []string) *Result {
	printers, err := e.manager.DetectPrinters()
	if err != nil {
		return &Result{
			Success: false,
			Error:   fmt.Sprintf("discovery failed: %v", err),
		}
	}
	return &Result{
		Success: true,
		Message: fmt.Sprintf("Discovered %d printer(s)", len(printers)),
		Data: map[string]interface{}{
			"count": len(printers),
		},
	}
}

// handleHelp handles help command
func (e *Executor) handleHelp(args []string) *Result {
	helpText := `Available Commands:

  print <printer-id> <label-path> [--copies N]
    Render a .label document and print it to the specified printer

  printer list
    List all discovered printers

  printer add-network <host> [port]
    Add a network printer (default port: 9100)

  printer rename <id> <name>
    Set a custom name for a printer

  job list
    List all print jobs

  job status <id>
    Get status of a specific job

  job clear
    Clear completed jobs from the queue

  discover
    Discover/scan for printers

  help
    Show this help message

Examples:
  print printer-123 ./shipping.label
  print printer-123 ./shipping.label --copies 3
  printer add-network 192.168.1.100 9100
  printer rename printer-123 "Warehouse Printer"
  job status job-456
`

	return &Result{
		Success: true,
		Message: helpText,
	}
}

// loadLabelFromURL loads a label document from a URL
func loadLabelFromURL(url string) (*labelformat.Label, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch label from URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch label: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read label from URL: %w", err)
	}

	doc, err := labelformat.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label: %w", err)
	}

	return doc, nil
}
