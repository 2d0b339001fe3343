package port

import "context"

// External collaborators consumed by the messaging subsystem for display
// only. The subsystem never writes through these.

// UserSummary is the display projection of a user.
type UserSummary struct {
	ID        string
	Name      string
	AvatarURL *string
}

// UserDirectory resolves user ids to display data.
type UserDirectory interface {
	GetUser(ctx context.Context, id string) (*UserSummary, error)
}

// JobSummary is the display projection of a job posting.
type JobSummary struct {
	ID    string
	Title string
}

// JobDirectory resolves job ids to display data; the job id doubles as the
// contextual id of job-scoped conversations.
type JobDirectory interface {
	GetJob(ctx context.Context, id string) (*JobSummary, error)
}
