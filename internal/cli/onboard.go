package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ogurasousui/codex-staff-admin/internal/core/employee"
	"github.com/ogurasousui/codex-staff-admin/internal/core/form"
	"github.com/spf13/cobra"
)

// backCommand を入力するとひとつ前のステップへ戻ります。
const backCommand = ":back"

// ErrInputClosed は入力がウィザード完了前に終わった場合のエラーです。
var ErrInputClosed = errors.New("input closed before the form was submitted")

// OnboardOptions は onboard コマンドのフラグです。
type OnboardOptions struct {
	*RootOptions
	Minimal bool
}

type onboardOutput struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Membership string `json:"membership"`
}

// NewOnboardCommand は社員登録ウィザードを生成します。
func NewOnboardCommand(rootOpts *RootOptions, bootstrap Bootstrap) *cobra.Command {
	opts := &OnboardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Register a new employee through the step-by-step form",
		Long: `Prompt for each field of the employee form, one line per field.

An empty line keeps the current value. Type ":back" to return to the previous step.
The employee is created and added to its department roster when the last step validates.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnboard(cmd, opts, bootstrap)
		},
	}

	cmd.Flags().BoolVar(&opts.Minimal, "minimal", false, "only ask for name, email, active and department")

	return cmd
}

func runOnboard(cmd *cobra.Command, opts *OnboardOptions, bootstrap Bootstrap) error {
	out := cmd.OutOrStdout()
	formatter := &OutputFormatter{Format: opts.Format, Writer: out}

	env, err := openEnv(cmd, opts.RootOptions, bootstrap)
	if err != nil {
		_ = formatter.Failure(err)
		return err
	}
	defer env.Close()

	var created *employee.CreateEmployeeResult
	submit := func(ctx context.Context, values form.Values) error {
		input, err := values.CreateInput()
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		created, err = env.Services.Employees.CreateEmployee(ctx, input)
		return err
	}

	f := form.NewExtended(submit)
	if opts.Minimal {
		f = form.NewMinimal(submit)
	}

	// json 出力時はプロンプトを stderr に出して stdout を結果だけにします。
	prompt := out
	if opts.Format == "json" {
		prompt = cmd.ErrOrStderr()
	}

	wizard := &wizard{form: f, in: bufio.NewScanner(cmd.InOrStdin()), out: prompt}
	if _, err := wizard.run(cmd.Context()); err != nil {
		_ = formatter.Failure(err)
		return WrapExitError(ExitFailure, "onboard", err)
	}

	e := created.Employee
	result := onboardOutput{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Department: e.Department,
		Membership: created.Sync.Status(),
	}
	return formatter.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Created employee %s (%s) in %s, membership %s.\n", result.Name, result.ID, result.Department, result.Membership)
		if err := created.Sync.Err(); err != nil {
			fmt.Fprintf(w, "Warning: %v\n", err)
		}
	})
}

type wizard struct {
	form *form.Form
	in   *bufio.Scanner
	out  io.Writer
}

func (w *wizard) run(ctx context.Context) (form.State, error) {
	s := w.form.Initial()
	for !s.Submitted {
		fmt.Fprintf(w.out, "Step %d/%d (%.0f%%)\n", s.Step+1, w.form.TotalSteps(), w.form.Progress(s))

		next, back, err := w.fillStep(s)
		if err != nil {
			return s, err
		}
		if back {
			s = w.form.PreviousStep(next)
			continue
		}

		next, err = w.form.NextStep(ctx, next)
		if err != nil {
			return s, err
		}
		if !next.Valid() {
			for _, field := range w.form.StepFields(next.Step) {
				if msg, ok := next.Errors[field]; ok {
					fmt.Fprintf(w.out, "  %s: %s\n", field, msg)
				}
			}
		}
		s = next
	}
	return s, nil
}

func (w *wizard) fillStep(s form.State) (form.State, bool, error) {
	for _, field := range w.form.StepFields(s.Step) {
		fmt.Fprintf(w.out, "%s [%s]: ", field, s.Values.Get(field))
		if !w.in.Scan() {
			if err := w.in.Err(); err != nil {
				return s, false, err
			}
			return s, false, ErrInputClosed
		}
		line := strings.TrimSpace(w.in.Text())
		if line == backCommand {
			return s, true, nil
		}
		if line != "" {
			if field == form.FieldActive {
				active, err := parseYesNo(line)
				if err != nil {
					fmt.Fprintf(w.out, "  %s: %v\n", field, err)
					continue
				}
				s = w.form.SetActive(s, active)
			} else {
				s = w.form.UpdateField(s, field, line)
			}
		}
		s = w.form.Blur(s, field)
	}
	return s, false, nil
}

func parseYesNo(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "y", "yes", "true":
		return true, nil
	case "n", "no", "false":
		return false, nil
	default:
		return false, fmt.Errorf("expected yes or no, got %q", value)
	}
}
