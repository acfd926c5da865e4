package handlers

import (
	"context"
	"net/http"

	"github.com/akolanti/AcademyAssistant/internal/admin"
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/domain/jobModel"
	"github.com/akolanti/AcademyAssistant/internal/feedback"
)

type Answerer interface {
	Answer(ctx context.Context, q answerModel.Question) (answerModel.Answer, error)
}

type QAAdmin interface {
	Create(ctx context.Context, in admin.QAInput) (commonModels.QAPair, error)
	Get(ctx context.Context, id string) (commonModels.QAPair, error)
	List(ctx context.Context, audience commonModels.Audience) ([]commonModels.QAPair, error)
	Update(ctx context.Context, id string, in admin.QAInput) (commonModels.QAPair, error)
	Delete(ctx context.Context, id string) error
}

type DocumentAdmin interface {
	Upload(ctx context.Context, up admin.Upload) (admin.UploadResult, error)
	Get(ctx context.Context, id string) (commonModels.Document, error)
	List(ctx context.Context, partition commonModels.Partition) ([]commonModels.Document, error)
	Delete(ctx context.Context, id string) error
}

type FeedbackRecorder interface {
	Record(ctx context.Context, in feedback.Input) (commonModels.Feedback, error)
}

type JobStatusReader interface {
	Status(ctx context.Context, jobId string) (jobModel.Job, bool)
}

type Dependencies struct {
	Answerer  Answerer
	QA        QAAdmin
	Documents DocumentAdmin
	Feedback  FeedbackRecorder
	Jobs      JobStatusReader
}

var deps Dependencies

// Init must run before the router serves requests.
func Init(d Dependencies) {
	deps = d
}

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
