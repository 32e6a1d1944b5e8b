// Package hookevent defines the JSON payloads the assistant host delivers
// to hook processes on stdin, and typed views over the loosely shaped tool
// arguments they carry.
package hookevent

import (
	"encoding/json"
	"io"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// Event names the host uses for hook dispatch.
const (
	EventUserPromptSubmit = "UserPromptSubmit"
	EventPreToolUse       = "PreToolUse"
	EventPostToolUse      = "PostToolUse"
)

// UserPromptSubmitPayload is delivered when the user submits a prompt.
type UserPromptSubmitPayload struct {
	Event  string `json:"hook_event_name,omitempty"`
	Prompt string `json:"prompt"`
	CWD    string `json:"cwd,omitempty"`
}

// ToolUsePayload is delivered before (PreToolUse) and after (PostToolUse)
// a tool runs. Args is tool-specific; use the typed accessors to view it.
type ToolUsePayload struct {
	Event    string                 `json:"hook_event_name,omitempty"`
	ToolName string                 `json:"tool_name"`
	Args     map[string]interface{} `json:"tool_input"`
	CWD      string                 `json:"cwd,omitempty"`
}

// WriteArgs are the arguments of write-like tools.
type WriteArgs struct {
	FilePath string `mapstructure:"file_path"`
	Content  string `mapstructure:"content"`
}

// DelegateArgs are the arguments of sub-agent delegation tools.
type DelegateArgs struct {
	Subagent string `mapstructure:"subagent_type"`
	Prompt   string `mapstructure:"prompt"`
}

// CommandArgs are the arguments of shell-like tools.
type CommandArgs struct {
	Command string `mapstructure:"command"`
}

// DecodePrompt reads a UserPromptSubmit payload from r. A payload that
// fails to decode yields an empty payload and an error the caller is free
// to ignore; hooks fail open.
func DecodePrompt(r io.Reader) (UserPromptSubmitPayload, error) {
	var p UserPromptSubmitPayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return UserPromptSubmitPayload{}, errors.Wrap(err, "failed to decode prompt payload")
	}
	return p, nil
}

// DecodeToolUse reads a Pre/PostToolUse payload from r.
func DecodeToolUse(r io.Reader) (ToolUsePayload, error) {
	var p ToolUsePayload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return ToolUsePayload{}, errors.Wrap(err, "failed to decode tool use payload")
	}
	return p, nil
}

// decodeArgs maps the loose Args map onto a typed view. Host tool inputs
// are not strictly typed, so decoding is weakly typed and ignores unknown
// keys.
func (p ToolUsePayload) decodeArgs(out interface{}) bool {
	if p.Args == nil {
		return false
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return false
	}
	return decoder.Decode(p.Args) == nil
}

// WriteArgs returns the write-tool view of the arguments; ok is false when
// the payload carries no file path.
func (p ToolUsePayload) WriteArgs() (WriteArgs, bool) {
	var args WriteArgs
	if !p.decodeArgs(&args) || args.FilePath == "" {
		return WriteArgs{}, false
	}
	return args, true
}

// DelegateArgs returns the delegation view of the arguments; ok is false
// when the payload names no subagent.
func (p ToolUsePayload) DelegateArgs() (DelegateArgs, bool) {
	var args DelegateArgs
	if !p.decodeArgs(&args) || args.Subagent == "" {
		return DelegateArgs{}, false
	}
	return args, true
}

// CommandArgs returns the shell view of the arguments; ok is false when
// the payload carries no command text.
func (p ToolUsePayload) CommandArgs() (CommandArgs, bool) {
	var args CommandArgs
	if !p.decodeArgs(&args) || args.Command == "" {
		return CommandArgs{}, false
	}
	return args, true
}
