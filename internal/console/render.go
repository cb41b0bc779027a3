package console

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/viant/toolbox"
	"github.com/viant/wfconsole/i18n"
	"github.com/viant/wfconsole/model"
	"github.com/viant/wfconsole/service/status"
)

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func renderMessage(w io.Writer, message *model.Message) {
	if message == nil || message.Text == "" {
		return
	}
	marker := "*"
	switch message.Tone {
	case model.ToneSuccess:
		marker = "ok"
	case model.ToneError:
		marker = "!!"
	}
	fmt.Fprintf(w, "%s %s\n", marker, message.Text)
}

// renderPayload prints every key of payload as key=value, sorted by key.
func renderPayload(w io.Writer, indent string, payload map[string]interface{}) {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s%s = %s\n", indent, k, formatValue(payload[k]))
	}
}

func formatValue(value interface{}) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]interface{}, []interface{}:
		if data, err := json.Marshal(value); err == nil {
			return string(data)
		}
	}
	return toolbox.AsString(value)
}

func renderTasks(w io.Writer, t i18n.Translator, heading string, tasks []*model.Task) {
	fmt.Fprintln(w, t(heading, nil))
	if len(tasks) == 0 {
		fmt.Fprintln(w, "  "+t("tasks.empty", nil))
		return
	}
	table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "  ID\tNAME\tPROCESS\tCREATED")
	for _, task := range tasks {
		fmt.Fprintf(table, "  %s\t%s\t%s\t%s\n", task.TaskID, task.TaskName, task.ProcessInstanceID, formatTime(task.CreatedAt))
	}
	_ = table.Flush()
	for _, task := range tasks {
		if len(task.Payload) == 0 {
			continue
		}
		fmt.Fprintf(w, "  %s payload:\n", task.TaskID)
		renderPayload(w, "    ", task.Payload)
	}
}

func renderStatus(w io.Writer, t i18n.Translator, snapshot *model.ProcessStatus, changes *status.Diff) {
	if snapshot == nil {
		return
	}
	state := snapshot.State.Label()
	if snapshot.State == "" {
		state = t("statusTag.unknown", nil)
	}
	fmt.Fprintf(w, "%s [%s]\n", snapshot.ProcessInstanceID, state)
	if task := snapshot.CurrentTask; task != nil {
		fmt.Fprintf(w, "%s: %s (%s)\n", t("status.currentTask", nil), task.TaskName, task.TaskID)
	}

	fmt.Fprintln(w, t("status.timeline", nil))
	if len(snapshot.History) == 0 {
		fmt.Fprintln(w, "  "+t("status.timeline.empty", nil))
	} else {
		table := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintf(table, "  %s\t%s\t%s\t%s\t%s\n", "ACTIVITY",
			strings.ToUpper(t("status.handler", nil)), strings.ToUpper(t("status.result", nil)),
			strings.ToUpper(t("status.start", nil)), strings.ToUpper(t("status.end", nil)))
		for _, entry := range snapshot.History {
			fmt.Fprintf(table, "  %s\t%s\t%s\t%s\t%s\n", entry.Title(), orDash(entry.Assignee), orDash(entry.Result),
				formatTime(entry.StartTime), formatTime(entry.EndTime))
		}
		_ = table.Flush()
	}

	if len(snapshot.Variables) > 0 {
		fmt.Fprintln(w, t("status.variables", nil))
		renderPayload(w, "  ", snapshot.Variables)
	}
	if !changes.Empty() {
		fmt.Fprint(w, changes.Text)
	}
}

func renderEntries(w io.Writer, entries []model.Entry) {
	for _, entry := range entries {
		fmt.Fprintf(w, "  [%s] %s\n", entry.Timestamp, entry.Message)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
