// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

The unique indexes on the relation collections (event_registrations,
club_members, internship_applications) are load-bearing: they are what
prevents a learner from holding two registrations for the same event
when concurrent joins race past the application-level existence check.
*/
func EnsureAll(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	var problems []string

	if err := ensureProfiles(ctx, db, log); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensureAuthUsers(ctx, db, log); err != nil {
		problems = append(problems, "auth_users: "+err.Error())
	}
	if err := ensureEvents(ctx, db, log); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureClubs(ctx, db, log); err != nil {
		problems = append(problems, "clubs: "+err.Error())
	}
	if err := ensureInternships(ctx, db, log); err != nil {
		problems = append(problems, "internships: "+err.Error())
	}
	if err := ensureMentorships(ctx, db, log); err != nil {
		problems = append(problems, "mentorships: "+err.Error())
	}
	if err := ensureEventRegistrations(ctx, db, log); err != nil {
		problems = append(problems, "event_registrations: "+err.Error())
	}
	if err := ensureClubMembers(ctx, db, log); err != nil {
		problems = append(problems, "club_members: "+err.Error())
	}
	if err := ensureInternshipApplications(ctx, db, log); err != nil {
		problems = append(problems, "internship_applications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := false
	bv := false
	if a != nil {
		av = *a
	}
	if b != nil {
		bv = *b
	}
	return av == bv
}

// Best-effort duplicate-detector (works cross-vendors)
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// ensureIndexSet reconciles the desired indexes against what the
// collection already has: same keys and options are reused, mismatched
// options are dropped and recreated, missing indexes are created.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, log *zap.Logger, models []mongo.IndexModel) error {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err == nil {
		defer cur.Close(ctx)
		for cur.Next(ctx) {
			var idx existingIndex
			if err := cur.Decode(&idx); err != nil {
				log.Warn("failed to decode existing index",
					zap.String("collection", coll.Name()),
					zap.Error(err))
				continue
			}
			existing[keySig(idx.Key)] = idx
		}
	}

	var errs []string
	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			if m.Options.Unique != nil {
				desiredUnique = m.Options.Unique
			}
		}
		desiredSig := keySig(m.Keys.(bson.D))

		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) {
				log.Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", desiredSig))
				continue
			}

			// Options mismatch (e.g., upgrading to unique). Drop & recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		log.Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                              */
/* -------------------------------------------------------------------------- */

func ensureProfiles(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("profiles")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		// Email must be unique across all profiles.
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_profiles_email"),
		},
		// Admin totals and role-scoped listings.
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "fullname_ci", Value: 1},
			},
			Options: options.Index().SetName("idx_profiles_role_fullnameci"),
		},
	})
}

func ensureAuthUsers(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("auth_users")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_auth_users_email"),
		},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("events")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		// Contributor dashboards list their own events by date.
		{
			Keys: bson.D{
				{Key: "contributor_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("idx_events_contributor_date"),
		},
		// Learner listings scan active events in date order.
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().SetName("idx_events_active_date"),
		},
	})
}

func ensureClubs(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("clubs")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "contributor_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_clubs_contributor_created"),
		},
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_clubs_active_created"),
		},
	})
}

func ensureInternships(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("internships")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		// Learner listings order active internships by application deadline.
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "deadline", Value: 1},
			},
			Options: options.Index().SetName("idx_internships_active_deadline"),
		},
		{
			Keys: bson.D{
				{Key: "contributor_id", Value: 1},
				{Key: "deadline", Value: 1},
			},
			Options: options.Index().SetName("idx_internships_contributor_deadline"),
		},
	})
}

func ensureMentorships(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("mentorships")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "contributor_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_mentorships_contributor_created"),
		},
		{
			Keys: bson.D{
				{Key: "is_active", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_mentorships_active_created"),
		},
	})
}

func ensureEventRegistrations(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("event_registrations")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		// One registration per learner per event; the arbiter under
		// concurrent join requests.
		{
			Keys: bson.D{
				{Key: "event_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_reg_event_user"),
		},
		// "Which events am I registered for" lookups.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_reg_user"),
		},
	})
}

func ensureClubMembers(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("club_members")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "club_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_member_club_user"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_member_user"),
		},
	})
}

func ensureInternshipApplications(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	c := db.Collection("internship_applications")
	return ensureIndexSet(ctx, c, log, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "internship_id", Value: 1},
				{Key: "user_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_app_internship_user"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_app_user"),
		},
		// Contributor review listings, newest application first.
		{
			Keys: bson.D{
				{Key: "internship_id", Value: 1},
				{Key: "application_date", Value: -1}},
			Options: options.Index().SetName("idx_app_internship_date"),
		},
	})
}
