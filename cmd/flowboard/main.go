package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowboard-io/flowboard/pkg/client"
	"github.com/flowboard-io/flowboard/pkg/graph"
)

var (
	Version   = "v1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  flowboard workflow list")
	fmt.Println("  flowboard workflow create <name>")
	fmt.Println("  flowboard workflow execute <id>")
	fmt.Println("  flowboard workflow clone <id>")
	fmt.Println("  flowboard upload <path>")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	endpoint := os.Getenv("FLOWBOARD_ENDPOINT")
	c := client.NewClient(endpoint)
	ctx := context.Background()

	switch os.Args[1] {
	case "workflow":
		if len(os.Args) < 3 {
			usage()
		}
		runWorkflow(ctx, c, os.Args[2], os.Args[3:])
	case "upload":
		if len(os.Args) < 3 {
			usage()
		}
		runUpload(ctx, c, os.Args[2])
	default:
		usage()
	}
}

func runWorkflow(ctx context.Context, c *client.Client, sub string, args []string) {
	switch sub {
	case "list":
		workflows, err := c.ListWorkflows(ctx, client.ListOptions{})
		if err != nil {
			fail("Error listing workflows: %v", err)
		}
		if len(workflows) == 0 {
			fmt.Println("No workflows.")
			return
		}
		for _, w := range workflows {
			fmt.Printf("%s  %-30s %-10s %d nodes, %d connections\n",
				w.ID, w.Name, w.Status, len(w.Nodes), len(w.Connections))
		}

	case "create":
		if len(args) < 1 {
			usage()
		}
		created, err := c.CreateWorkflow(ctx, graph.NewWorkflow(args[0], ""))
		if err != nil {
			fail("Error creating workflow: %v", err)
		}
		fmt.Printf("Workflow created: %s (%s)\n", created.Name, created.ID)

	case "execute":
		if len(args) < 1 {
			usage()
		}
		exec, err := c.ExecuteWorkflow(ctx, args[0])
		if err != nil {
			fail("Error executing workflow: %v", err)
		}
		fmt.Printf("Execution started: %s (%d nodes pending)\n", exec.ExecutionID, len(exec.NodeStates))

	case "clone":
		if len(args) < 1 {
			usage()
		}
		clone, err := c.CloneWorkflow(ctx, args[0])
		if err != nil {
			fail("Error cloning workflow: %v", err)
		}
		fmt.Printf("Workflow cloned: %s (%s)\n", clone.Name, clone.ID)

	default:
		usage()
	}
}

func runUpload(ctx context.Context, c *client.Client, path string) {
	f, err := os.Open(path)
	if err != nil {
		fail("Error opening file: %v", err)
	}
	defer f.Close()

	upload, err := c.UploadFile(ctx, filepath.Base(path), "", f)
	if err != nil {
		fail("Error uploading file: %v", err)
	}
	fmt.Printf("Uploaded %s (%d bytes) as %s, category: %s\n",
		upload.Filename, upload.Size, upload.ID, upload.Category)
}

func fail(format string, args ...interface{}) {
	fmt.Printf(format+"\n", args...)
	fmt.Println("Is flowboard-d running?")
	os.Exit(1)
}
