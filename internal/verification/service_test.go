package verification

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablebell/restaurant-api/internal/domain"
)

type mockRepository struct {
	byUser map[int64]*domain.EmailVerification
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{byUser: make(map[int64]*domain.EmailVerification)}
}

func (m *mockRepository) Upsert(_ context.Context, v *domain.EmailVerification) error {
	if existing, ok := m.byUser[v.UserID]; ok {
		v.ID = existing.ID
	} else {
		m.nextID++
		v.ID = m.nextID
	}
	v.Verified = false
	cp := *v
	m.byUser[v.UserID] = &cp
	return nil
}

func (m *mockRepository) GetByUserID(_ context.Context, userID int64) (*domain.EmailVerification, error) {
	v, ok := m.byUser[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (m *mockRepository) MarkVerified(_ context.Context, id int64) error {
	for _, v := range m.byUser {
		if v.ID == id {
			v.Verified = true
			return nil
		}
	}
	return ErrNotFound
}

type sentCode struct {
	address string
	code    string
}

type mockSender struct {
	sent []sentCode
}

func (m *mockSender) SendVerificationCode(_ context.Context, address, code string) {
	m.sent = append(m.sent, sentCode{address, code})
}

func newTestService() (*Service, *mockRepository, *mockSender) {
	repo := newMockRepository()
	sender := &mockSender{}
	svc := NewService(repo, sender)
	svc.generate = func() (string, error) { return "123456", nil }
	return svc, repo, sender
}

var user = &domain.User{ID: 7, Email: "user@example.com", Role: domain.RoleClient}

func TestIssue_StoresAndSendsCode(t *testing.T) {
	// Arrange
	svc, repo, sender := newTestService()

	// Act
	err := svc.Issue(context.Background(), user)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "123456", repo.byUser[7].Code)
	assert.False(t, repo.byUser[7].Verified)
	assert.Equal(t, []sentCode{{"user@example.com", "123456"}}, sender.sent)
}

func TestVerify(t *testing.T) {
	t.Run("wrong code", func(t *testing.T) {
		svc, repo, _ := newTestService()
		require.NoError(t, svc.Issue(context.Background(), user))

		err := svc.Verify(context.Background(), user, "000000")

		assert.ErrorIs(t, err, ErrWrongCode)
		assert.False(t, repo.byUser[7].Verified)
	})

	t.Run("correct code", func(t *testing.T) {
		svc, repo, _ := newTestService()
		require.NoError(t, svc.Issue(context.Background(), user))

		require.NoError(t, svc.Verify(context.Background(), user, "123456"))
		assert.True(t, repo.byUser[7].Verified)
	})

	t.Run("already verified", func(t *testing.T) {
		svc, _, _ := newTestService()
		require.NoError(t, svc.Issue(context.Background(), user))
		require.NoError(t, svc.Verify(context.Background(), user, "123456"))

		err := svc.Verify(context.Background(), user, "123456")

		assert.ErrorIs(t, err, ErrAlreadyVerified)
	})

	t.Run("no record", func(t *testing.T) {
		svc, _, _ := newTestService()

		err := svc.Verify(context.Background(), user, "123456")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSendCode(t *testing.T) {
	t.Run("reissues for unverified user", func(t *testing.T) {
		svc, _, sender := newTestService()
		require.NoError(t, svc.Issue(context.Background(), user))

		require.NoError(t, svc.SendCode(context.Background(), user))
		assert.Len(t, sender.sent, 2)
	})

	t.Run("creates a record when missing", func(t *testing.T) {
		svc, repo, _ := newTestService()

		require.NoError(t, svc.SendCode(context.Background(), user))
		assert.Contains(t, repo.byUser, int64(7))
	})

	t.Run("refuses when verified", func(t *testing.T) {
		svc, _, sender := newTestService()
		require.NoError(t, svc.Issue(context.Background(), user))
		require.NoError(t, svc.Verify(context.Background(), user, "123456"))

		err := svc.SendCode(context.Background(), user)

		assert.ErrorIs(t, err, ErrAlreadyVerified)
		assert.Len(t, sender.sent, 1)
	})
}

func TestReissueResetsVerification(t *testing.T) {
	svc, _, _ := newTestService()
	require.NoError(t, svc.Issue(context.Background(), user))
	require.NoError(t, svc.Verify(context.Background(), user, "123456"))

	require.NoError(t, svc.Issue(context.Background(), user))

	verified, err := svc.IsVerified(context.Background(), user.ID)
	require.NoError(t, err)
	assert.False(t, verified)
}

func TestIsVerified_NoRecord(t *testing.T) {
	svc, _, _ := newTestService()

	verified, err := svc.IsVerified(context.Background(), 99)

	require.NoError(t, err)
	assert.False(t, verified)
}

func TestGenerateCode(t *testing.T) {
	re := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		code, err := generateCode()
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestCodeFrom_ReaderError(t *testing.T) {
	code, err := codeFrom(failingReader{})

	require.Error(t, err)
	assert.Empty(t, code)
}

func TestIssue_GenerateError(t *testing.T) {
	// Arrange
	svc, repo, sender := newTestService()
	svc.generate = func() (string, error) { return "", errors.New("entropy unavailable") }

	// Act
	err := svc.Issue(context.Background(), user)

	// Assert
	require.Error(t, err)
	assert.Empty(t, repo.byUser)
	assert.Empty(t, sender.sent)
}
