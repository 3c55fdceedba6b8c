package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/client/client"
	"github.com/dmitrijs2005/voicediary/internal/client/publish"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/client/models"
)

func (a *App) Record(ctx context.Context) error {
	w, err := a.currentWorkflow(ctx)
	if err != nil {
		return err
	}
	if err := w.StartRecording(ctx); err != nil {
		return err
	}
	printlnFn("Recording... type 'stop' when you are done.")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	w, err := a.activeWorkflow()
	if err != nil {
		return err
	}
	blob, err := w.StopRecording()
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Captured %s (%d bytes, %s). Type 'next' to pick a mood or 'restart' to record again.",
		formatDuration(blob.Duration), len(blob.Data), blob.MIMEType))
	return nil
}

func (a *App) Next(ctx context.Context) error {
	w, err := a.activeWorkflow()
	if err != nil {
		return err
	}
	if err := w.Next(); err != nil {
		return err
	}
	printlnFn("How are you feeling? " + moodList() + ". Type 'mood <name>'.")
	return nil
}

func (a *App) Back(ctx context.Context) error {
	w, err := a.activeWorkflow()
	if err != nil {
		return err
	}
	if err := w.Back(); err != nil {
		return err
	}
	printlnFn("Back to preview.")
	return nil
}

func (a *App) Mood(ctx context.Context, arg string) error {
	w, err := a.activeWorkflow()
	if err != nil {
		return err
	}
	if arg == "" {
		printlnFn("Usage: mood <name>. Moods: " + moodList())
		return nil
	}
	m, err := w.SelectMood(arg)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Mood set to %s. Type 'post' to publish.", m))
	return nil
}

func (a *App) Post(ctx context.Context) error {
	w, err := a.activeWorkflow()
	if err != nil {
		return err
	}
	printlnFn("Uploading...")
	rec, err := w.Submit(ctx)
	if err != nil {
		if w.State().Phase == publish.PhasePreview {
			printlnFn("Your recording is kept. Type 'next' to try again.")
		}
		return err
	}
	printlnFn(fmt.Sprintf("Published #%d (%s, %s).", rec.ID, rec.Mood, formatDuration(rec.Duration)))
	return nil
}

func (a *App) Restart(ctx context.Context) error {
	w, err := a.activeWorkflow()
	if err != nil {
		return err
	}
	if err := w.Restart(); err != nil {
		return err
	}
	printlnFn("Discarded. Type 'record' to start again.")
	return nil
}

// List accepts an optional mood and an optional sort in any order.
func (a *App) List(ctx context.Context, args []string) error {
	q := client.ListQuery{ViewerID: a.viewerID()}
	for _, arg := range args {
		switch strings.ToLower(arg) {
		case string(models.SortLatest), string(models.SortPopular):
			q.Sort = strings.ToLower(arg)
		default:
			q.Mood = arg
		}
	}

	recs, err := a.api.ListRecordings(ctx, q)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		printlnFn("No recordings yet.")
		return nil
	}
	for _, r := range recs {
		printlnFn(a.formatRecording(r))
	}
	return nil
}

func (a *App) Show(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	r, err := a.api.GetRecording(ctx, id, a.viewerID())
	if err != nil {
		return err
	}
	printlnFn(a.formatRecording(r))
	return nil
}

func (a *App) Random(ctx context.Context) error {
	r, err := a.api.RandomRecording(ctx, a.viewerID())
	if err != nil {
		return err
	}
	printlnFn(a.formatRecording(r))
	return nil
}

func (a *App) Like(ctx context.Context, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	u, err := a.ensureUser(ctx)
	if err != nil {
		return err
	}
	res, err := a.api.ToggleLike(ctx, id, u.ID)
	if err != nil {
		return err
	}
	verb := "Unliked"
	if res.Liked {
		verb = "Liked"
	}
	printlnFn(fmt.Sprintf("%s #%d, %d like(s).", verb, id, res.LikesCount))
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.ensureUser(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("You are %s (avatar %s).", u.ID, u.AvatarSeed))
	return nil
}

func (a *App) Status(ctx context.Context) error {
	printlnFn(fmt.Sprintf("Server: %s", a.getMode()))
	if id := a.viewerID(); id != "" {
		printlnFn("User: " + id)
	}

	w, err := a.activeWorkflow()
	if err != nil {
		printlnFn("Entry: none")
		return nil
	}
	s := w.State()
	line := "Entry: " + string(s.Phase)
	if s.Recording {
		line += fmt.Sprintf(", recording %s", formatDuration(s.ElapsedSeconds))
	}
	if s.HasBlob {
		line += fmt.Sprintf(", take %s", formatDuration(s.Duration))
	}
	if s.Mood != "" {
		line += ", mood " + string(s.Mood)
	}
	printlnFn(line)
	if s.LastErr != nil {
		printlnFn("Last error: " + describeError(s.LastErr))
	}
	return nil
}

// statusLine is the short prompt decoration.
func (a *App) statusLine() string {
	parts := []string{string(a.getMode())}

	a.mu.Lock()
	w := a.workflow
	a.mu.Unlock()
	if w != nil {
		s := w.State()
		switch {
		case s.Recording:
			parts = append(parts, "rec "+formatDuration(s.ElapsedSeconds))
		case s.Phase != publish.PhaseCapturing:
			parts = append(parts, string(s.Phase))
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) formatRecording(r *models.EnrichedRecording) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d  %-8s %6s  %d like(s)", r.ID, r.Mood, formatDuration(r.Duration), r.LikesCount)
	if r.User != nil {
		fmt.Fprintf(&b, "  by %s", r.User.AvatarSeed)
	}
	if r.IsLiked != nil && *r.IsLiked {
		b.WriteString("  [liked]")
	}
	fmt.Fprintf(&b, "  %s  %s", r.CreatedAt.Local().Format(time.DateTime), a.resolve(r.AudioURL))
	return b.String()
}

func (a *App) resolve(location string) string {
	if a.resolveURL == nil {
		return location
	}
	return a.resolveURL(location)
}

func formatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func moodList() string {
	names := make([]string, len(models.Moods))
	for i, m := range models.Moods {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.NewValidationError("id", "expected a recording number")
	}
	return id, nil
}
