package domain

// Page is the paginated envelope the backend returns from filter endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// PageRequest selects a page. Pages are zero-based.
type PageRequest struct {
	Page int
	Size int
}

// DefaultPageSize matches the console's list views.
const DefaultPageSize = 10

// Keyword is a search term crawled on one or more platforms.
type Keyword struct {
	ID        int64    `json:"id"`
	Keyword   string   `json:"keyword"`
	Platform  string   `json:"platform,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	Server    []string `json:"server,omitempty"`
	Status    bool     `json:"status"`
}

// KeywordFilter narrows a keyword listing. Nil fields are not filtered on.
type KeywordFilter struct {
	Platform *string `json:"platform"`
	Status   *bool   `json:"status"`
	Server   *string `json:"server"`
}

type KeywordCreate struct {
	Keywords  []string `json:"keywords"`
	Platforms []string `json:"platforms"`
	Server    []string `json:"server"`
	Status    bool     `json:"status"`
}

type KeywordUpdate struct {
	NewKeyword string   `json:"newKeyword"`
	Platforms  []string `json:"platforms"`
	Server     []string `json:"server"`
	Status     bool     `json:"status"`
}

// Source is a URL crawled for content.
type Source struct {
	ID          int64  `json:"id"`
	SourceURL   string `json:"sourceUrl"`
	Platform    string `json:"platform,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	SourceType  string `json:"sourceType,omitempty"`
	Status      bool   `json:"status"`
}

type SourceFilter struct {
	Platform *string `json:"platform"`
	Status   *bool   `json:"status"`
}

// DefaultSourceType is used when a create request does not name one.
const DefaultSourceType = "WEBSITE"

type SourceCreate struct {
	SourceURL   []string `json:"sourceUrl"`
	OrgID       *string  `json:"orgId"`
	Platforms   []string `json:"platforms"`
	CompanyName string   `json:"companyName"`
	SourceType  string   `json:"sourceType"`
	Status      bool     `json:"status"`
}

type SourceUpdate struct {
	NewSource []string `json:"newSource"`
	Platforms []string `json:"platforms"`
	Status    bool     `json:"status"`
}

// BotType selects how a schedule fires.
type BotType string

const (
	BotCron     BotType = "CRON"
	BotInterval BotType = "INTERVAL"
)

// Schedule is a run schedule as returned by the backend.
type Schedule struct {
	ID              int64   `json:"id"`
	ScheduleName    string  `json:"scheduleName"`
	StartTime       string  `json:"startTime"`
	BotType         BotType `json:"botType"`
	CronExpr        string  `json:"cronExpr,omitempty"`
	IntervalSeconds *int    `json:"interval_seconds,omitempty"`
	Status          bool    `json:"status"`
}

type ScheduleFilter struct {
	Status *bool `json:"status"`
}

// ScheduleInput is the create/update payload. StartTime is yyyy-MM-dd.
type ScheduleInput struct {
	ScheduleName    string  `json:"scheduleName"`
	StartTime       string  `json:"startTime"`
	BotType         BotType `json:"botType"`
	Cron            string  `json:"cron,omitempty"`
	IntervalSeconds *int    `json:"interval_seconds"`
	Status          bool    `json:"status"`
}

// TaskStatus is the lifecycle of a crawl task.
type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskRunning TaskStatus = "RUNNING"
	TaskDone    TaskStatus = "DONE"
)

// Task binds keywords to a schedule.
type Task struct {
	ID              int64      `json:"id"`
	ScheduleID      int64      `json:"scheduleId"`
	KeywordName     []string   `json:"keywordName"`
	Platform        string     `json:"platform,omitempty"`
	Status          TaskStatus `json:"status"`
	AssignedBot     string     `json:"assignedBot,omitempty"`
	CronExpr        string     `json:"cronExpr,omitempty"`
	IntervalSeconds *int       `json:"interval_seconds,omitempty"`
	StartTime       string     `json:"startTime,omitempty"`
	CreatedAt       string     `json:"createdAt,omitempty"`
	UpdatedAt       string     `json:"updatedAt,omitempty"`
}

// TaskFilter omits empty fields from the request body.
type TaskFilter struct {
	Keyword        string     `json:"keyword,omitempty"`
	ScheduleStatus *bool      `json:"scheduleStatus,omitempty"`
	TaskStatus     TaskStatus `json:"taskStatus,omitempty"`
	Platform       string     `json:"platform,omitempty"`
}

type TaskInput struct {
	ScheduleID  int64      `json:"scheduleId"`
	KeywordName []string   `json:"keywordName"`
	Status      TaskStatus `json:"status"`
}
