package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	errNotLoggedIn  = errors.New("please log in first")
	errStudentsOnly = errors.New("only students can do this")
	errTeachersOnly = errors.New("only teachers can do this")
	errEmptyEssay   = errors.New("essay is empty")
)

func (a *App) requireRole(role string) error {
	s := a.currentSession()
	if s == nil {
		return errNotLoggedIn
	}
	if s.role != role {
		if role == roleTeacher {
			return errTeachersOnly
		}
		return errStudentsOnly
	}
	return nil
}

// Submit asks for the teacher id and the essay text, sends the essay for
// scoring and prints the result.
func (a *App) Submit(ctx context.Context) error {
	if err := a.requireRole(roleStudent); err != nil {
		return err
	}

	teacherID, err := getSimpleText(a.reader, "Teacher id", a.out)
	if err != nil {
		return err
	}

	essay, err := getMultiline(a.reader, "Essay text", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(essay) == "" {
		return errEmptyEssay
	}

	fmt.Fprintln(a.out, "Scoring, this may take a while...")

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	sub, err := a.client.SubmitEssay(ctx, teacherID, essay)
	if err != nil {
		return a.checkSession(err)
	}

	renderSubmission(a.out, sub)
	return nil
}

// Progress prints the submissions and averages of a student. Students see
// their own progress; teachers name the student as the first argument.
func (a *App) Progress(ctx context.Context, args []string) error {
	s := a.currentSession()
	if s == nil {
		return errNotLoggedIn
	}

	studentID := ""
	if len(args) > 0 {
		studentID = args[0]
	} else if s.role == roleTeacher {
		fmt.Fprintln(a.out, "Usage: progress <student id>")
		return nil
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	p, err := a.client.GetProgress(ctx, studentID)
	if err != nil {
		return a.checkSession(err)
	}

	renderProgress(a.out, p)
	return nil
}
