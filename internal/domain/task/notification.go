package task

import (
	"context"
	"fmt"
	"strings"
)

// notify resolves the recipient set and dispatches the notification for a
// task create or remark append. internalUserID is non-nil for internal
// actors. The send is best-effort: failures are logged, never returned, so a
// notification-channel outage cannot abort the state transition.
func (s *Service) notify(ctx context.Context, t *Task, remarkText string, internalUserID *string) {
	if s.notifier == nil || s.resolver == nil {
		return
	}

	recipients, err := s.resolveRecipients(ctx, t, internalUserID)
	if err != nil {
		s.logger.Error("resolving notification recipients", "task_id", t.ID, "error", err)
		return
	}
	if len(recipients) == 0 {
		s.logger.Info("no notification recipients, skipping send", "task_id", t.ID)
		return
	}

	subject := composeSubject(t)
	body := composeBody(t, remarkText)

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.NotifyTimeout)
	defer cancel()
	if err := s.notifier.Send(sendCtx, recipients, subject, body); err != nil {
		s.logger.Error("sending notification", "task_id", t.ID, "recipients", len(recipients), "error", err)
	}
}

// resolveRecipients builds the union of the department's addresses with
// either the internal actor's own address or all customer-contact addresses,
// deduplicated.
func (s *Service) resolveRecipients(ctx context.Context, t *Task, internalUserID *string) ([]string, error) {
	addrs, err := s.resolver.DepartmentEmails(ctx, t.DepartmentID)
	if err != nil {
		return nil, fmt.Errorf("department emails: %w", err)
	}

	if internalUserID != nil {
		email, err := s.resolver.InternalUserEmail(ctx, *internalUserID)
		if err != nil {
			// A missing user address narrows the set, it doesn't fail it.
			s.logger.Warn("internal user email not resolved", "user_id", *internalUserID, "error", err)
		} else if email != "" {
			addrs = append(addrs, email)
		}
	} else {
		contacts, err := s.resolver.CustomerContactEmails(ctx, t.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("customer contact emails: %w", err)
		}
		addrs = append(addrs, contacts...)
	}

	return dedupe(addrs), nil
}

func dedupe(addrs []string) []string {
	seen := make(map[string]struct{}, len(addrs))
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}

func composeSubject(t *Task) string {
	title := t.Title
	if strings.TrimSpace(title) == "" {
		title = t.Description
	}
	return fmt.Sprintf("Service Task %s: %s", t.ID, title)
}

func composeBody(t *Task, remarkText string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task ID: %s\n", t.ID)
	fmt.Fprintf(&b, "Department: %s\n", t.DepartmentID)
	fmt.Fprintf(&b, "Customer: %s\n", t.CustomerID)
	fmt.Fprintf(&b, "Site: %s\n", t.SiteID)
	fmt.Fprintf(&b, "Created By: %s\n", t.CreatedBy)
	if strings.TrimSpace(remarkText) != "" {
		fmt.Fprintf(&b, "\n%s\n", remarkText)
	}
	return b.String()
}

// latestRemarkText returns the task description, falling back to the
// earliest remark's text when the description is blank.
func latestRemarkText(t *Task) string {
	if strings.TrimSpace(t.Description) != "" {
		return t.Description
	}
	if len(t.Remarks) > 0 {
		return t.Remarks[0].Body
	}
	return ""
}
