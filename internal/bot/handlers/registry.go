package handlers

import (
	"context"
)

// Command triggers, matched case-insensitively at the start of a message.
var (
	OpenCaseTriggers  = []string{"#เปิดเคส", "#สมัครกู้", "ลงทะเบียนกู้:"}
	CheckCaseTriggers = []string{"#เช็คเคส", "#สถานะ", "#เช็คสถานะ"}
)

// CommandFunc runs a classified command.
type CommandFunc func(ctx context.Context, req *Request)

// RegisteredCommand binds trigger phrases to a command handler.
// Commands are tried in registration order.
type RegisteredCommand struct {
	Name     string
	Triggers []string
	Handler  CommandFunc
}

// RegisterAllCommands returns the chat commands in match priority.
func RegisterAllCommands(deps HandlerDeps, r *Replier) []RegisteredCommand {
	return []RegisteredCommand{
		{
			Name:     "open_case",
			Triggers: OpenCaseTriggers,
			Handler:  openCaseHandler{deps: deps, replier: r}.Handle,
		},
		{
			Name:     "check_case",
			Triggers: CheckCaseTriggers,
			Handler:  checkCaseHandler{deps: deps, replier: r}.Handle,
		},
	}
}
