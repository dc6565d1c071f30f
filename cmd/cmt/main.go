package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MohamedAbusurra/CS438class/adapter/cli"
	"github.com/MohamedAbusurra/CS438class/adapter/cli/message"
	"github.com/MohamedAbusurra/CS438class/adapter/cli/milestone"
	"github.com/MohamedAbusurra/CS438class/adapter/cli/notification"
	"github.com/MohamedAbusurra/CS438class/adapter/cli/project"
	"github.com/MohamedAbusurra/CS438class/adapter/cli/report"
	"github.com/MohamedAbusurra/CS438class/adapter/cli/task"
	"github.com/MohamedAbusurra/CS438class/adapter/cli/user"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The container is opened by the root command once flags are parsed.
	a := cli.NewApp(nil, nil)

	root := cli.NewRootCmd(a)
	root.AddCommand(
		cli.NewServeCmd(a),
		cli.NewMigrateCmd(a),
		project.NewCmd(a),
		milestone.NewCmd(a),
		task.NewCmd(a),
		report.NewCmd(a),
		message.NewCmd(a),
		notification.NewCmd(a),
		user.NewCmd(a),
	)

	err := root.ExecuteContext(ctx)
	// PersistentPostRunE does not run when a command fails.
	_ = a.Close()
	if err != nil {
		os.Exit(1)
	}
}
