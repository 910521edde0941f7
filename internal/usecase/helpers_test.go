package usecase

import (
	"strconv"
	"testing"

	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/testutil"

	"gorm.io/gorm"
)

// fakeSecurity stores passwords reversed and issues the subject as the token.
type fakeSecurity struct{}

func (fakeSecurity) HashPassword(password string) (string, error) {
	b := []byte(password)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return "hash:" + string(b), nil
}

func (f fakeSecurity) VerifyPassword(password, hash string) bool {
	h, _ := f.HashPassword(password)
	return h == hash
}

func (fakeSecurity) IssueToken(subject string) (string, error) {
	return "token-for-" + subject, nil
}

type services struct {
	db       *gorm.DB
	auth     *AuthService
	projects *ProjectService
	tasks    *TaskService
}

func newServices(t *testing.T) services {
	t.Helper()
	db := testutil.MustDB(t)
	users := repository.NewUserRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	audit := repository.NewAuditRepository(db)
	return services{
		db:       db,
		auth:     NewAuthService(users, fakeSecurity{}),
		projects: NewProjectService(projects, users, audit),
		tasks:    NewTaskService(tasks, projects, users, audit),
	}
}

func uintPtr(v uint) *uint { return &v }
func strPtr(v string) *string { return &v }

func uintString(v uint) string { return strconv.FormatUint(uint64(v), 10) }
