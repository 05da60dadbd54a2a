// Package tui provides the interactive terminal UI for the label engine
// server.
package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/labelbridge/ppla-engine/internal/command"
	"github.com/labelbridge/ppla-engine/internal/printer"
)

// App is the terminal UI application
type App struct {
	App      *tview.Application
	manager  *printer.Manager
	pool     *printer.ConnectionPool
	queue    *printer.PrintQueue
	executor *command.Executor
	port     string

	// Main layout
	flex *tview.Flex

	// Panels
	printersList *tview.List
	queueTable   *tview.Table
	statusBox    *tview.TextView
	logsArea     *tview.TextView
	commandInput *tview.InputField

	// State
	logs      []string
	maxLogs   int
	startTime time.Time
}

// New creates the terminal UI
func New(manager *printer.Manager, pool *printer.ConnectionPool, queue *printer.PrintQueue, port string) *App {
	t := &App{
		App:       tview.NewApplication(),
		manager:   manager,
		pool:      pool,
		queue:     queue,
		executor:  command.NewExecutor(manager, pool, queue),
		port:      port,
		logs:      make([]string, 0),
		maxLogs:   100,
		startTime: time.Now(),
	}

	t.setupUI()
	return t
}

func (t *App) setupUI() {
	t.printersList = tview.NewList()
	t.printersList.SetBorder(true)
	t.printersList.SetTitle("Printers")

	t.queueTable = tview.NewTable()
	t.queueTable.SetBorder(true)
	t.queueTable.SetTitle("Print Queue")

	t.statusBox = tview.NewTextView()
	t.statusBox.SetBorder(true)
	t.statusBox.SetTitle("Server Status")
	t.statusBox.SetDynamicColors(true)

	t.logsArea = tview.NewTextView()
	t.logsArea.SetBorder(true)
	t.logsArea.SetTitle("Server Logs")
	t.logsArea.SetDynamicColors(true)
	t.logsArea.SetScrollable(true)
	t.logsArea.SetChangedFunc(func() {
		t.App.Draw()
	})

	t.commandInput = tview.NewInputField().
		SetLabel("> ").
		SetFieldWidth(0).
		SetPlaceholder("Type a command (e.g., 'help')").
		SetDoneFunc(func(key tcell.Key) {
			if key == tcell.KeyEnter {
				t.executeCommand(t.commandInput.GetText())
				t.commandInput.SetText("")
			}
		})

	// Top row: Printers, Queue, Status
	topRow := tview.NewFlex().
		AddItem(t.printersList, 0, 1, false).
		AddItem(t.queueTable, 0, 1, false).
		AddItem(t.statusBox, 0, 1, false)

	// Bottom: Logs and command
	bottom := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.logsArea, 0, 3, false).
		AddItem(t.commandInput, 1, 0, true)

	// Main layout
	t.flex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, false).
		AddItem(bottom, 0, 1, false)

	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if t.commandInput.HasFocus() {
			if event.Key() == tcell.KeyEsc {
				t.App.SetFocus(t.printersList)
				return nil
			}
			return event
		}

		switch event.Key() {
		case tcell.KeyCtrlC, tcell.KeyEsc:
			t.App.Stop()
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case ':':
				t.App.SetFocus(t.commandInput)
				return nil
			case 'q':
				t.App.Stop()
				return nil
			}
		}
		return event
	})

	t.App.SetRoot(t.flex, true)
}

// Run starts the TUI
func (t *App) Run() error {
	// Initial refresh
	t.refreshAll()

	// Start refresh ticker
	go t.refreshTicker()

	t.AddLog("Label engine starting...", "info")

	return t.App.Run()
}

func (t *App) refreshTicker() {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		t.App.QueueUpdateDraw(func() {
			t.refreshAll()
		})
	}
}

// RefreshPrinters is a public method to refresh the printers panel
func (t *App) RefreshPrinters() {
	t.refreshPrinters()
}

func (t *App) refreshAll() {
	t.refreshPrinters()
	t.refreshQueue()
	t.refreshStatus()
}

func (t *App) refreshPrinters() {
	t.printersList.Clear()

	printers := t.manager.GetAllPrinters()

	if len(printers) == 0 {
		t.printersList.AddItem("No printers discovered", "", 0, nil)
		return
	}

	for _, p := range printers {
		name := p.Name
		if name == "" {
			name = p.Description
		}
		if name == "" {
			name = p.ID
		}

		detail := strings.ToUpper(p.Type)
		switch p.Type {
		case "driver":
			detail = fmt.Sprintf("DRIVER • %s", p.Path)
		case "serial":
			detail = fmt.Sprintf("SERIAL • %s", p.Device)
		case "network":
			detail = fmt.Sprintf("NETWORK • %s:%d", p.Host, p.Port)
		case "usb":
			detail = fmt.Sprintf("USB • %04X:%04X", p.VID, p.PID)
		}

		connected := " "
		if t.pool.IsConnected(p.ID) {
			connected = "*"
		}

		t.printersList.AddItem(fmt.Sprintf("%s %s", connected, name), detail, 0, nil)
	}
}

func (t *App) refreshQueue() {
	t.queueTable.Clear()

	// Header
	t.queueTable.SetCell(0, 0, tview.NewTableCell("Status").SetAlign(tview.AlignCenter).SetSelectable(false))
	t.queueTable.SetCell(0, 1, tview.NewTableCell("Printer").SetAlign(tview.AlignCenter).SetSelectable(false))
	t.queueTable.SetCell(0, 2, tview.NewTableCell("Copies").SetAlign(tview.AlignCenter).SetSelectable(false))
	t.queueTable.SetCell(0, 3, tview.NewTableCell("Retries").SetAlign(tview.AlignCenter).SetSelectable(false))
	t.queueTable.SetCell(0, 4, tview.NewTableCell("Time").SetAlign(tview.AlignCenter).SetSelectable(false))

	jobs := t.queue.GetAllJobs()

	queued := 0
	printing := 0
	completed := 0
	failed := 0

	for i, job := range jobs {
		row := i + 1

		t.queueTable.SetCell(row, 0, tview.NewTableCell(job.Status))
		t.queueTable.SetCell(row, 1, tview.NewTableCell(job.PrinterID))
		t.queueTable.SetCell(row, 2, tview.NewTableCell(fmt.Sprintf("%d", job.Options.Copies)))
		t.queueTable.SetCell(row, 3, tview.NewTableCell(fmt.Sprintf("%d", job.Retries)))

		timeStr := time.Since(job.CreatedAt).Truncate(time.Second).String()
		t.queueTable.SetCell(row, 4, tview.NewTableCell(timeStr))

		switch job.Status {
		case "queued":
			queued++
		case "printing":
			printing++
		case "completed":
			completed++
		case "failed":
			failed++
		}
	}

	// Add summary row
	if len(jobs) > 0 {
		summaryRow := len(jobs) + 1
		summary := fmt.Sprintf("[%d] Queued [%d] Printing [%d] Completed [%d] Failed",
			queued, printing, completed, failed)
		cell := tview.NewTableCell(summary)
		cell.SetSelectable(false)
		t.queueTable.SetCell(summaryRow, 0, cell)
	}
}

func (t *App) refreshStatus() {
	uptime := time.Since(t.startTime)
	hours := int(uptime.Hours())
	minutes := int(uptime.Minutes()) % 60

	status := fmt.Sprintf(`[green]Running[white]

Uptime: %dh %dm
API: :%s
Jobs: %d total`, hours, minutes, t.port, len(t.queue.GetAllJobs()))

	t.statusBox.SetText(status)
}

func (t *App) executeCommand(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}

	t.AddLog(fmt.Sprintf("> %s", cmd), "command")

	switch strings.ToLower(cmd) {
	case "clear":
		t.logs = make([]string, 0)
		t.logsArea.Clear()
		return
	case "refresh":
		t.AddLog("Refreshing all panels...", "info")
		t.refreshAll()
		return
	case "quit", "q", "exit":
		t.App.Stop()
		return
	}

	// Everything else goes through the shared command executor
	result := t.executor.Execute(cmd)

	if result.Success {
		if result.Message != "" {
			t.AddLog(result.Message, "info")
		}
		if result.Data != nil {
			if data, err := json.MarshalIndent(result.Data, "", "  "); err == nil {
				t.AddLog(string(data), "info")
			}
		}
		t.refreshAll()
	} else {
		t.AddLog(result.Error, "error")
	}
}

// AddLog adds a log entry
func (t *App) AddLog(message string, level string) {
	var color string

	switch level {
	case "error":
		color = "[red]"
	case "warning":
		color = "[yellow]"
	case "command":
		color = "[cyan]"
	default:
		color = "[white]"
	}

	timeStr := time.Now().Format("15:04:05")
	logEntry := fmt.Sprintf("%s[%s] %s[white]\n", color, timeStr, message)

	t.logs = append(t.logs, logEntry)
	if len(t.logs) > t.maxLogs {
		t.logs = t.logs[len(t.logs)-t.maxLogs:]
	}

	// Update logs area
	t.logsArea.Clear()
	for _, log := range t.logs {
		fmt.Fprint(t.logsArea, log)
	}

	// Auto-scroll to bottom
	t.logsArea.ScrollToEnd()
}

// LogWriter creates an io.Writer that writes to the logs panel
func (t *App) LogWriter() io.Writer {
	return &logWriter{app: t}
}

type logWriter struct {
	app *App
}

func (w *logWriter) Write(p []byte) (n int, err error) {
	message := strings.TrimSpace(string(p))
	if message != "" {
		w.app.AddLog(message, "info")
	}
	return len(p), nil
}
