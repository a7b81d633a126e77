package habits

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/standup/internal/cli"
	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/streak"
	"github.com/julianstephens/standup/internal/summary"
)

type HabitCmd struct {
	Add      HabitAddCmd      `cmd:"" help:"Add a new habit."`
	List     HabitListCmd     `cmd:"" help:"List habits with streaks and momentum."`
	Delete   HabitDeleteCmd   `cmd:"" help:"Delete a habit and its history."`
	Record   HabitRecordCmd   `cmd:"" help:"Record a completion of a habit."`
	Momentum HabitMomentumCmd `cmd:"" help:"Show a habit's 7-day momentum."`
	Done     HabitDoneCmd     `cmd:"" help:"Show habits completed on a day."`
	Summary  HabitSummaryCmd  `cmd:"" help:"Show today's and yesterday's completions."`
}

type HabitAddCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}

	habit, err := ctx.Habits.Add(context.Background(), owner, c.Title)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return fmt.Errorf("habit %q already exists", c.Title)
		}
		return err
	}

	ctx.Printf("Added habit: %s\n", habit.Title)
	return nil
}

type HabitListCmd struct{}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}
	bg := context.Background()

	list, err := ctx.Habits.List(bg, owner)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No habits found. Add one with 'standup habit add <title>'.")
		return nil
	}

	now := ctx.Engine.Now()
	momentum := make(map[string]int, len(list))
	for _, h := range list {
		m, err := ctx.Engine.Momentum(bg, owner, h.ID, now)
		if err != nil {
			return err
		}
		momentum[h.ID] = m
	}

	ctx.Println(cli.RenderHabits(list, momentum))
	return nil
}

type HabitDeleteCmd struct {
	Title string `arg:"" help:"Habit title."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}
	bg := context.Background()

	if _, err := ctx.Habits.Get(bg, owner, c.Title); err != nil {
		return lookupError(c.Title, err)
	}

	ctx.PerformAutomaticBackup(bg)

	habit, err := ctx.Habits.Delete(bg, owner, c.Title)
	if err != nil {
		return err
	}

	ctx.Printf("Deleted habit %q and %d completion(s)\n", habit.Title, habit.OverallCounter)
	return nil
}

type HabitRecordCmd struct {
	Title    string `arg:"" optional:"" help:"Habit title. Omit to pick from a list."`
	Quantity string `short:"q" help:"How many units were completed (default 1)."`
}

func (c *HabitRecordCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}
	bg := context.Background()

	quantity, err := streak.ParseQuantity(c.Quantity)
	if err != nil {
		return err
	}

	var habit models.Habit
	if c.Title == "" {
		habit, err = pickHabit(bg, ctx, owner)
	} else {
		habit, err = ctx.Habits.Get(bg, owner, c.Title)
	}
	if err != nil {
		return lookupError(c.Title, err)
	}

	entry, err := ctx.Engine.RecordCompletion(bg, owner, habit.ID, quantity)
	if err != nil {
		return err
	}

	updated, err := ctx.Habits.GetByID(bg, owner, habit.ID)
	if err != nil {
		return err
	}

	ctx.Printf("Recorded %q (x%d) on %s\n", updated.Title, entry.Quantity, entry.EntryDay)
	ctx.Printf("Streak: %d day(s), total completions: %d\n", updated.Streak, updated.OverallCounter)
	return nil
}

// lookupError names the habit in a not-found error when the user typed one.
func lookupError(title string, err error) error {
	if title != "" && errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("habit %q not found", title)
	}
	return err
}

// pickHabit asks the user to choose one of their habits.
func pickHabit(ctx context.Context, c *cli.Context, owner string) (models.Habit, error) {
	list, err := c.Habits.List(ctx, owner)
	if err != nil {
		return models.Habit{}, err
	}
	if len(list) == 0 {
		return models.Habit{}, fmt.Errorf("no habits to record; add one with 'standup habit add <title>'")
	}

	options := make([]huh.Option[int], len(list))
	for i, h := range list {
		options[i] = huh.NewOption(fmt.Sprintf("%s (streak %d)", h.Title, h.Streak), i)
	}

	var choice int
	err = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which habit did you complete?").
				Options(options...).
				Value(&choice),
		),
	).Run()
	if err != nil {
		return models.Habit{}, err
	}
	return list[choice], nil
}

type HabitMomentumCmd struct {
	Title string `arg:"" help:"Habit title."`
	Date  string `help:"Last day of the window in YYYY-MM-DD format (default: today)."`
}

func (c *HabitMomentumCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}
	bg := context.Background()

	asOf, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	habit, err := ctx.Habits.Get(bg, owner, c.Title)
	if err != nil {
		return lookupError(c.Title, err)
	}

	m, err := ctx.Engine.Momentum(bg, owner, habit.ID, asOf)
	if err != nil {
		return err
	}

	start, end := streak.Window(asOf, ctx.Location())
	ctx.Printf("%s: %d%% momentum (%s to %s)\n", habit.Title, m, start, end)
	return nil
}

type HabitDoneCmd struct {
	Date string `help:"Day in YYYY-MM-DD format (default: today)."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}

	day, err := ctx.ParseDay(c.Date)
	if err != nil {
		return err
	}
	completed, err := ctx.Engine.CompletedOn(context.Background(), owner, day)
	if err != nil {
		return err
	}

	label := day.Format("Monday, 2006-01-02")
	if len(completed) == 0 {
		ctx.Printf("No habits completed on %s.\n", label)
		return nil
	}
	ctx.Println(cli.TitleStyle.Render("Completed on " + label))
	ctx.Println(cli.RenderCompleted(completed))
	return nil
}

type HabitSummaryCmd struct{}

func (c *HabitSummaryCmd) Run(ctx *cli.Context) error {
	owner, err := ctx.RequireOwner()
	if err != nil {
		return err
	}

	s, err := summary.Build(context.Background(), ctx.Engine, ctx.Habits, owner, ctx.Engine.Now())
	if err != nil {
		return err
	}

	ctx.Println(cli.TitleStyle.Render("Today, " + s.Day.Format("Monday 2006-01-02")))
	if len(s.Today) == 0 {
		ctx.Println(cli.MutedStyle.Render("nothing yet"))
	} else {
		ctx.Println(cli.RenderCompleted(s.Today))
	}

	ctx.Println(cli.TitleStyle.Render("Yesterday"))
	if len(s.Yesterday) == 0 {
		ctx.Println(cli.MutedStyle.Render("nothing recorded"))
	} else {
		ctx.Println(cli.RenderCompleted(s.Yesterday))
	}

	if pending := s.Pending(); len(pending) > 0 {
		ctx.Println(cli.TitleStyle.Render("Still to do"))
		for _, h := range pending {
			ctx.Printf("  %s (%d%% momentum)\n", h.Title, s.Momentum[h.ID])
		}
	}
	return nil
}
