package models

type ScoreRequest struct {
	Track  string             `json:"track" validate:"required"`
	Grades map[string]float64 `json:"grades" validate:"required"`
}

type ScoreResponse struct {
	TrackName      string  `json:"track_name"`
	GeneralAverage float64 `json:"general_average"`
	SpecificScore  float64 `json:"specific_score"`
	AdmissionScore float64 `json:"admission_score"`
	Level          string  `json:"level"`
	Label          string  `json:"label"`
}

type CompareRequest struct {
	UserScore  float64 `json:"user_score" validate:"required,gte=0"`
	FirstCode  string  `json:"first_code" validate:"required"`
	SecondCode string  `json:"second_code" validate:"required,nefield=FirstCode"`
}

type CompareResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ComparisonResult struct {
	ID           string                `json:"id"`
	Status       string                `json:"status"`
	UserScore    float64               `json:"user_score"`
	First        ProgramClassification `json:"first"`
	Second       ProgramClassification `json:"second"`
	Analysis     *string               `json:"analysis,omitempty"`
	ErrorMessage *string               `json:"error_message,omitempty"`
}

type ProgramClassification struct {
	Code            string  `json:"code"`
	Category        string  `json:"category"`
	ScoreDifference float64 `json:"score_difference"`
	Label           string  `json:"label"`
	Color           string  `json:"color"`
}

type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message" validate:"required"`
	PageContext    string `json:"page_context,omitempty"`
}

type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type ConversationSummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	IsFullscreen  bool   `json:"is_fullscreen"`
	MessageCount  int64  `json:"message_count"`
	LastMessageAt string `json:"last_message_at"`
	CreatedAt     string `json:"created_at"`
}

type FavoriteRequest struct {
	OrientationCode string `json:"orientation_code" validate:"required"`
}

type ProfileRequest struct {
	BacTrack string   `json:"bac_track" validate:"required"`
	BacScore *float64 `json:"bac_score,omitempty" validate:"omitempty,min=0,max=220"`
}

type PomodoroSettingsRequest struct {
	PomodoroMinutes    int  `json:"pomodoro_minutes" validate:"required,min=1,max=180"`
	ShortBreakMinutes  int  `json:"short_break_minutes" validate:"required,min=1,max=60"`
	LongBreakMinutes   int  `json:"long_break_minutes" validate:"required,min=1,max=120"`
	CyclesBeforeLong   int  `json:"cycles_before_long" validate:"required,min=1,max=12"`
	AutoStartBreaks    bool `json:"auto_start_breaks"`
	AutoStartPomodoros bool `json:"auto_start_pomodoros"`
}

type AuthWebhookRequest struct {
	Event string          `json:"event" validate:"required,oneof=user.created user.updated user.deleted"`
	User  AuthWebhookUser `json:"user" validate:"required"`
}

type AuthWebhookUser struct {
	ExternalID string `json:"external_id" validate:"required"`
	Email      string `json:"email"`
	Name       string `json:"name"`
}
