// Package wfconsole is an operator console for an external workflow engine.
//
// A Service is one session. It acts as a single persona at a time, starts
// process instances, works the approval and manual task queues, and shows
// process status and history. Every component writes to a shared, newest
// first activity log.
//
//	srv, _ := wfconsole.New(wfconsole.WithConfig(cfg), wfconsole.WithPrompt(prompt.New(nil, nil)))
//	_, _ = srv.StartProcess(ctx, launcher.DefaultForm())
//	_ = srv.SwitchPersona(ctx, "approver")
//	_ = srv.SelectTab(ctx, router.TabApproval)
//	task := srv.Queue(model.RoleApprover).Tasks()[0]
//	_ = srv.Decide(ctx, model.RoleApprover, task.TaskID, model.DecisionApprove)
//
// The engine is reached only through service/gateway, which attaches the
// acting identity as X-User-Id and X-User-Roles headers.
package wfconsole
