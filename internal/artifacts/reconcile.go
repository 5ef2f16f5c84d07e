package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gocloud.dev/blob"

	"lotoqueue/internal/logging"
	"lotoqueue/internal/services"
)

// namePattern splits "<slug>-<contest>[-<n>].<ext>". The base must end in a
// numeric contest so that "dia-de-sorte-1074.jpg" is never read as a
// suffixed copy of "dia-de-sorte".
var namePattern = regexp.MustCompile(`(?i)^(?P<base>.+?-\d+)(?:-(?P<suffix>\d+))?\.(?P<ext>jpe?g|png)$`)

// ActionKind names a reconciliation step.
type ActionKind string

const (
	ActionKeep   ActionKind = "keep"
	ActionRename ActionKind = "rename"
	ActionDelete ActionKind = "delete"
)

// Action is one planned or applied change.
type Action struct {
	Kind ActionKind
	Key  string
	// Target is set for renames.
	Target string
}

func (a Action) String() string {
	if a.Kind == ActionRename {
		return fmt.Sprintf("%s %s -> %s", a.Kind, a.Key, a.Target)
	}
	return fmt.Sprintf("%s %s", a.Kind, a.Key)
}

// Report summarizes a reconciliation pass.
type Report struct {
	Kept    int
	Renamed int
	Deleted int
	DryRun  bool
	Actions []Action
}

// Reconciler keeps exactly one image per lottery and contest in a bucket.
type Reconciler struct {
	bucket *blob.Bucket
	dryRun bool
	logger *slog.Logger
}

// NewReconciler wraps bucket. In dry-run mode nothing is mutated.
func NewReconciler(bucket *blob.Bucket, dryRun bool, logger *slog.Logger) *Reconciler {
	return &Reconciler{bucket: bucket, dryRun: dryRun, logger: logging.NewComponentLogger(logger, "artifacts")}
}

type member struct {
	key    string
	suffix int
	plain  bool
}

// Reconcile groups top-level images by base name and extension. When the
// plain "<base>.<ext>" exists every suffixed copy is deleted; otherwise the
// smallest suffix is renamed to the plain name and the rest deleted.
func (r *Reconciler) Reconcile(ctx context.Context) (Report, error) {
	report := Report{DryRun: r.dryRun}
	groups, order, err := r.scan(ctx)
	if err != nil {
		return report, err
	}

	for _, target := range order {
		members := groups[target]
		sort.Slice(members, func(i, j int) bool {
			if members[i].plain != members[j].plain {
				return members[i].plain
			}
			return members[i].suffix < members[j].suffix
		})

		primary := members[0]
		if primary.plain {
			report.Actions = append(report.Actions, Action{Kind: ActionKeep, Key: primary.key})
		} else {
			report.Actions = append(report.Actions, Action{Kind: ActionRename, Key: primary.key, Target: target})
			if err := r.rename(ctx, primary.key, target); err != nil {
				return report, err
			}
			report.Renamed++
		}
		report.Kept++

		for _, extra := range members[1:] {
			report.Actions = append(report.Actions, Action{Kind: ActionDelete, Key: extra.key})
			if err := r.remove(ctx, extra.key); err != nil {
				return report, err
			}
			report.Deleted++
		}
	}

	r.logger.Info("output reconciled",
		logging.Int("kept", report.Kept),
		logging.Int("renamed", report.Renamed),
		logging.Int("deleted", report.Deleted),
		logging.Bool("dry_run", r.dryRun),
		logging.String(logging.FieldEventType, "artifacts_reconciled"),
	)
	return report, nil
}

func (r *Reconciler) scan(ctx context.Context) (map[string][]member, []string, error) {
	groups := make(map[string][]member)
	var order []string
	iter := r.bucket.List(&blob.ListOptions{Delimiter: "/"})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, services.Wrap(services.ErrTransport, "artifacts", "list", "", err)
		}
		if obj.IsDir {
			continue
		}
		name := path.Base(obj.Key)
		if strings.HasPrefix(name, ".") {
			continue
		}
		m := namePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		base := m[namePattern.SubexpIndex("base")]
		ext := strings.ToLower(m[namePattern.SubexpIndex("ext")])
		target := base + "." + ext
		entry := member{key: obj.Key, plain: true}
		if raw := m[namePattern.SubexpIndex("suffix")]; raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				continue
			}
			entry = member{key: obj.Key, suffix: n}
		}
		if _, seen := groups[target]; !seen {
			order = append(order, target)
		}
		groups[target] = append(groups[target], entry)
	}
	sort.Strings(order)
	return groups, order, nil
}

func (r *Reconciler) rename(ctx context.Context, from, to string) error {
	r.logger.Info("renaming artifact", logging.String("from", from), logging.String("to", to), logging.Bool("dry_run", r.dryRun))
	if r.dryRun {
		return nil
	}
	if err := r.bucket.Copy(ctx, to, from, nil); err != nil {
		return services.Wrap(services.ErrTransport, "artifacts", "copy", from, err)
	}
	return r.bucket.Delete(ctx, from)
}

func (r *Reconciler) remove(ctx context.Context, key string) error {
	r.logger.Info("deleting artifact", logging.String("key", key), logging.Bool("dry_run", r.dryRun))
	if r.dryRun {
		return nil
	}
	if err := r.bucket.Delete(ctx, key); err != nil {
		return services.Wrap(services.ErrTransport, "artifacts", "delete", key, err)
	}
	return nil
}
