package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
)

const (
	defaultServerURL = "http://localhost:12212"
)

func main() {
	var serverURL string
	flag.StringVar(&serverURL, "server", defaultServerURL, "Server URL")
	flag.StringVar(&serverURL, "s", defaultServerURL, "Server URL (short)")
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(1)
	}

	args := flag.Args()

	// Check if this is a print command with --compose flag
	var command string
	var tempFile string
	var err error

	if len(args) >= 2 && args[0] == "print" {
		// Look for --compose flag
		composeIndex := -1
		for i, arg := range args {
			if arg == "--compose" {
				composeIndex = i
				break
			}
		}

		if composeIndex >= 0 {
			// Parse compose arguments and create a temporary label file
			composeArgs := args[composeIndex+1:]
			tempFile, err = createComposedLabel(composeArgs)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error creating composed label: %v\n", err)
				os.Exit(1)
			}
			defer os.Remove(tempFile) // Clean up temp file

			// Reconstruct command with temp file path instead of --compose args
			newArgs := append(args[:composeIndex], tempFile)
			command = strings.Join(newArgs, " ")
		} else {
			command = strings.Join(args, " ")
		}
	} else {
		command = strings.Join(args, " ")
	}

	result := executeCommand(serverURL, command)

	if result.Success {
		printSuccess(result)
		os.Exit(0)
	} else {
		printError(result)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Label Engine CLI

Usage:
  ppla-cli [flags] <command>

Flags:
  -s, -server <url>    Server URL (default: %s)

Commands:
  print <printer-id> <label-path> [--copies N]
    Render a .label document and print it to the specified printer

  print <printer-id> --compose <commands...>
    Compose and print a label from command-line arguments
    Compose commands:
      text:"Hello World"                - Text command
      text:"Title" size:32 align:center - Text with properties
      barcode:"4712345678901"           - Barcode (default CODE128)
      qrcode:"https://example.com"      - QR code
      line                              - Horizontal line
      box height:60                     - Rectangle
      feed:2                            - Advance the flow cursor

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
    Show help message

Examples:
  ppla-cli print printer-123 ./shipping.label
  ppla-cli print printer-123 ./shipping.label --copies 3
  ppla-cli print printer-123 --compose text:"FRAGILE" size:48 align:center barcode:"4712345678901"
  ppla-cli printer add-network 192.168.1.100 9100
  ppla-cli printer rename printer-123 "Warehouse Printer"
  ppla-cli job status job-456
  ppla-cli -s http://localhost:8080 printer list

`, defaultServerURL)
}

type CommandResult struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func executeCommand(serverURL, command string) *CommandResult {
	url := strings.TrimSuffix(serverURL, "/") + "/command"

	reqBody := map[string]string{
		"command": command,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to marshal request: %v", err),
		}
	}

	resp, err := http.Post(url, "application/json", strings.NewReader(string(jsonData)))
	if err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to connect to server: %v", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to read response: %v", err),
		}
	}

	var result CommandResult
	if err := json.Unmarshal(body, &result); err != nil {
		return &CommandResult{
			Success: false,
			Error:   fmt.Sprintf("failed to parse response: %v", err),
		}
	}

	return &result
}

func printSuccess(result *CommandResult) {
	if result.Message != "" {
		fmt.Println(result.Message)
	}

	if result.Data != nil {
		// Pretty print data
		if printers, ok := result.Data["printers"].([]interface{}); ok {
			fmt.Println("\nPrinters:")
			for _, p := range printers {
				if printer, ok := p.(map[string]interface{}); ok {
					name := printer["name"]
					if name == "" {
						name = printer["description"]
					}
					fmt.Printf("  %s: %s (%s)\n", printer["id"], name, printer["type"])
				}
			}
		}

		if jobs, ok := result.Data["jobs"].([]interface{}); ok {
			fmt.Println("\nJobs:")
			for _, j := range jobs {
				if job, ok := j.(map[string]interface{}); ok {
					fmt.Printf("  %s: %s (printer: %s)\n",
						job["id"], job["status"], job["printer_id"])
				}
			}
		}

		if jobID, ok := result.Data["job_id"].(string); ok {
			fmt.Printf("Job ID: %s\n", jobID)
		}

		if printerID, ok := result.Data["printer_id"].(string); ok {
			fmt.Printf("Printer ID: %s\n", printerID)
		}
	}
}

func printError(result *CommandResult) {
	if result.Error != "" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", result.Error)
	} else if result.Message != "" {
		fmt.Fprintf(os.Stderr, "%s\n", result.Message)
	}
}

// createComposedLabel parses compose arguments and creates a temporary label
// file. Each argument either starts a new command (e.g., "text:", "barcode:",
// "line") or adds a property to the current one (e.g., "size:32").
func createComposedLabel(composeArgs []string) (string, error) {
	if len(composeArgs) == 0 {
		return "", fmt.Errorf("no compose arguments provided")
	}

	commands := []map[string]interface{}{}
	var currentCmd map[string]interface{}

	for _, arg := range composeArgs {
		if isCommandStart(arg) {
			// Save previous command if exists
			if currentCmd != nil {
				commands = append(commands, currentCmd)
			}
			var err error
			currentCmd, err = parseComposeCommandStart(arg)
			if err != nil {
				return "", fmt.Errorf("failed to parse command '%s': %v", arg, err)
			}
		} else if currentCmd != nil {
			if err := parseCommandProperty(currentCmd, arg); err != nil {
				return "", fmt.Errorf("failed to parse property '%s': %v", arg, err)
			}
		} else {
			return "", fmt.Errorf("unexpected argument '%s' (expected command start)", arg)
		}
	}

	// Don't forget the last command
	if currentCmd != nil {
		commands = append(commands, currentCmd)
	}

	doc := map[string]interface{}{
		"version":  "1.0",
		"commands": commands,
	}

	tmpFile, err := os.CreateTemp("", "label-composed-*.label")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	encoder := json.NewEncoder(tmpFile)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		os.Remove(tmpFile.Name())
		return "", fmt.Errorf("failed to write label JSON: %v", err)
	}

	return tmpFile.Name(), nil
}

// isCommandStart checks if an argument starts a new command
func isCommandStart(arg string) bool {
	knownCommands := []string{"text:", "barcode:", "qrcode:", "image:", "feed:", "line", "box"}
	for _, cmd := range knownCommands {
		if strings.HasPrefix(arg, cmd) || arg == strings.TrimSuffix(cmd, ":") {
			return true
		}
	}
	return false
}

// parseComposeCommandStart parses the start of a command (type and first value)
func parseComposeCommandStart(arg string) (map[string]interface{}, error) {
	cmd := make(map[string]interface{})
	colonIndex := strings.Index(arg, ":")

	if colonIndex == -1 {
		// No colon - it's a simple command like "line" or "box"
		cmd["type"] = arg
		return cmd, nil
	}

	cmdType := arg[:colonIndex]
	firstValue := arg[colonIndex+1:]

	cmd["type"] = cmdType

	switch cmdType {
	case "text", "barcode", "qrcode":
		cmd["value"] = strings.Trim(firstValue, `"'`)
	case "feed":
		lines, err := strconv.Atoi(firstValue)
		if err != nil {
			return nil, fmt.Errorf("invalid feed lines value: %s", firstValue)
		}
		cmd["lines"] = lines
	case "image":
		cmd["path"] = strings.Trim(firstValue, `"'`)
	default:
		cmd["value"] = strings.Trim(firstValue, `"'`)
	}

	return cmd, nil
}

// parseCommandProperty parses a property argument and adds it to the command
func parseCommandProperty(cmd map[string]interface{}, arg string) error {
	colonIndex := strings.Index(arg, ":")
	if colonIndex == -1 {
		return fmt.Errorf("property must be in format 'name:value', got: %s", arg)
	}

	propName := arg[:colonIndex]
	propValue := arg[colonIndex+1:]

	// Try to parse as number first
	if intVal, err := strconv.Atoi(propValue); err == nil {
		cmd[propName] = intVal
	} else if boolVal, err := strconv.ParseBool(propValue); err == nil {
		cmd[propName] = boolVal
	} else {
		// String value, remove quotes if present
		cmd[propName] = strings.Trim(propValue, `"'`)
	}

	return nil
}
