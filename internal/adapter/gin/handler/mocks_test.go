package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"court-service/internal/domain/anonymize"
	"court-service/internal/domain/auth"
	"court-service/internal/domain/casefile"
	"court-service/internal/domain/courtsession"
	"court-service/internal/domain/identity"
	"court-service/internal/domain/judicial"
	"court-service/internal/domain/transcription"
	"court-service/internal/domain/warrant"
	anonymizeuc "court-service/internal/usecase/anonymize"
	authuc "court-service/internal/usecase/auth"
	casefileuc "court-service/internal/usecase/casefile"
	identityuc "court-service/internal/usecase/identity"
	judicialuc "court-service/internal/usecase/judicial"
	transcriptionuc "court-service/internal/usecase/transcription"
	"court-service/internal/usecase/virtualcourt"
	warrantuc "court-service/internal/usecase/warrant"
)

// result returns the first mocked value as T, or the zero value when it is nil.
func result[T any](args mock.Arguments) T {
	var zero T
	if args.Get(0) == nil {
		return zero
	}
	return args.Get(0).(T)
}

type MockAuthUsecase struct{ mock.Mock }

func (m *MockAuthUsecase) Login(ctx context.Context, in authuc.LoginRequest) (*authuc.TokenPair, error) {
	args := m.Called(ctx, in)
	return result[*authuc.TokenPair](args), args.Error(1)
}

func (m *MockAuthUsecase) Refresh(ctx context.Context, in authuc.RefreshRequest) (*authuc.TokenPair, error) {
	args := m.Called(ctx, in)
	return result[*authuc.TokenPair](args), args.Error(1)
}

func (m *MockAuthUsecase) Logout(ctx context.Context, accessToken string, in authuc.LogoutRequest) error {
	return m.Called(ctx, accessToken, in).Error(0)
}

func (m *MockAuthUsecase) Me(ctx context.Context, p auth.Principal) (*auth.User, error) {
	args := m.Called(ctx, p)
	return result[*auth.User](args), args.Error(1)
}

type MockTranscriptionUsecase struct{ mock.Mock }

func (m *MockTranscriptionUsecase) StartSession(ctx context.Context, p auth.Principal, in transcriptionuc.StartSessionRequest) (*transcription.Session, error) {
	args := m.Called(ctx, p, in)
	return result[*transcription.Session](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) StopSession(ctx context.Context, p auth.Principal, id string) (*transcription.Session, error) {
	args := m.Called(ctx, p, id)
	return result[*transcription.Session](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) GetSession(ctx context.Context, id string) (*transcriptionuc.SessionDetail, error) {
	args := m.Called(ctx, id)
	return result[*transcriptionuc.SessionDetail](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) TranscribeChunk(ctx context.Context, p auth.Principal, in transcriptionuc.ChunkRequest) (*transcriptionuc.ChunkResponse, error) {
	args := m.Called(ctx, p, in)
	return result[*transcriptionuc.ChunkResponse](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) SubmitJob(ctx context.Context, p auth.Principal, in transcriptionuc.SubmitJobRequest) (*transcription.Job, error) {
	args := m.Called(ctx, p, in)
	return result[*transcription.Job](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) ListJobs(ctx context.Context, p auth.Principal, page, limit int64) (*transcriptionuc.ListJobsResponse, error) {
	args := m.Called(ctx, p, page, limit)
	return result[*transcriptionuc.ListJobsResponse](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) GetJob(ctx context.Context, p auth.Principal, id string) (*transcription.Job, error) {
	args := m.Called(ctx, p, id)
	return result[*transcription.Job](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) GetJobResult(ctx context.Context, p auth.Principal, id string) (*transcriptionuc.JobResult, error) {
	args := m.Called(ctx, p, id)
	return result[*transcriptionuc.JobResult](args), args.Error(1)
}

func (m *MockTranscriptionUsecase) DeleteJob(ctx context.Context, p auth.Principal, id string) error {
	return m.Called(ctx, p, id).Error(0)
}

type MockIdentityUsecase struct{ mock.Mock }

func (m *MockIdentityUsecase) VerifyNIN(ctx context.Context, requestedBy int64, in identityuc.VerifyNINRequest) (*identity.NINResult, error) {
	args := m.Called(ctx, requestedBy, in)
	return result[*identity.NINResult](args), args.Error(1)
}

func (m *MockIdentityUsecase) VerifyOfficial(ctx context.Context, requestedBy int64, in identityuc.VerifyOfficialRequest) (*identity.OfficialResult, error) {
	args := m.Called(ctx, requestedBy, in)
	return result[*identity.OfficialResult](args), args.Error(1)
}

type MockCaseUsecase struct{ mock.Mock }

func (m *MockCaseUsecase) CreateCase(ctx context.Context, p auth.Principal, in casefileuc.CreateCaseRequest) (*casefile.Case, error) {
	args := m.Called(ctx, p, in)
	return result[*casefile.Case](args), args.Error(1)
}

func (m *MockCaseUsecase) GetCase(ctx context.Context, id int64) (*casefile.Case, error) {
	args := m.Called(ctx, id)
	return result[*casefile.Case](args), args.Error(1)
}

func (m *MockCaseUsecase) UpdateCase(ctx context.Context, id int64, in casefileuc.UpdateCaseRequest) (*casefile.Case, error) {
	args := m.Called(ctx, id, in)
	return result[*casefile.Case](args), args.Error(1)
}

func (m *MockCaseUsecase) ListCases(ctx context.Context, in casefileuc.ListCasesRequest) (*casefileuc.ListCasesResponse, error) {
	args := m.Called(ctx, in)
	return result[*casefileuc.ListCasesResponse](args), args.Error(1)
}

func (m *MockCaseUsecase) UploadDocument(ctx context.Context, in casefileuc.UploadDocumentRequest) (*casefile.Document, error) {
	args := m.Called(ctx, in)
	return result[*casefile.Document](args), args.Error(1)
}

func (m *MockCaseUsecase) ListDocuments(ctx context.Context, caseID int64) ([]casefile.Document, error) {
	args := m.Called(ctx, caseID)
	return result[[]casefile.Document](args), args.Error(1)
}

type MockWarrantUsecase struct{ mock.Mock }

func (m *MockWarrantUsecase) Types() []warrant.TypeSpec {
	return result[[]warrant.TypeSpec](m.Called())
}

func (m *MockWarrantUsecase) Agencies() []warrant.Agency {
	return result[[]warrant.Agency](m.Called())
}

func (m *MockWarrantUsecase) Issue(ctx context.Context, p auth.Principal, in warrantuc.IssueRequest) (*warrant.Warrant, error) {
	args := m.Called(ctx, p, in)
	return result[*warrant.Warrant](args), args.Error(1)
}

func (m *MockWarrantUsecase) Get(ctx context.Context, id string) (*warrant.Warrant, error) {
	args := m.Called(ctx, id)
	return result[*warrant.Warrant](args), args.Error(1)
}

func (m *MockWarrantUsecase) Status(ctx context.Context, id string) (*warrantuc.StatusResponse, error) {
	args := m.Called(ctx, id)
	return result[*warrantuc.StatusResponse](args), args.Error(1)
}

func (m *MockWarrantUsecase) Transfer(ctx context.Context, p auth.Principal, id string, in warrantuc.TransferRequest) (*warrant.Transfer, error) {
	args := m.Called(ctx, p, id, in)
	return result[*warrant.Transfer](args), args.Error(1)
}

func (m *MockWarrantUsecase) List(ctx context.Context, in warrantuc.ListRequest) (*warrantuc.ListResponse, error) {
	args := m.Called(ctx, in)
	return result[*warrantuc.ListResponse](args), args.Error(1)
}

func (m *MockWarrantUsecase) Revoke(ctx context.Context, p auth.Principal, id string, in warrantuc.RevokeRequest) (*warrant.Warrant, error) {
	args := m.Called(ctx, p, id, in)
	return result[*warrant.Warrant](args), args.Error(1)
}

func (m *MockWarrantUsecase) Verify(ctx context.Context, id string, in warrantuc.VerifyRequest) (*warrantuc.VerifyResponse, error) {
	args := m.Called(ctx, id, in)
	return result[*warrantuc.VerifyResponse](args), args.Error(1)
}

type MockVirtualCourtUsecase struct{ mock.Mock }

func (m *MockVirtualCourtUsecase) CreateSession(ctx context.Context, p auth.Principal, in virtualcourt.CreateSessionRequest) (*courtsession.Session, error) {
	args := m.Called(ctx, p, in)
	return result[*courtsession.Session](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) GetSession(ctx context.Context, p auth.Principal, id string) (*courtsession.Session, error) {
	args := m.Called(ctx, p, id)
	return result[*courtsession.Session](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) ListSessions(ctx context.Context, p auth.Principal, in virtualcourt.ListSessionsRequest) (*virtualcourt.ListSessionsResponse, error) {
	args := m.Called(ctx, p, in)
	return result[*virtualcourt.ListSessionsResponse](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) Join(ctx context.Context, p auth.Principal, id string, in virtualcourt.JoinRequest) (*virtualcourt.JoinResponse, error) {
	args := m.Called(ctx, p, id, in)
	return result[*virtualcourt.JoinResponse](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) StartSession(ctx context.Context, p auth.Principal, id string) (*courtsession.Session, error) {
	args := m.Called(ctx, p, id)
	return result[*courtsession.Session](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) EndSession(ctx context.Context, p auth.Principal, id string) (*courtsession.Session, error) {
	args := m.Called(ctx, p, id)
	return result[*courtsession.Session](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) PostponeSession(ctx context.Context, p auth.Principal, id string, in virtualcourt.PostponeRequest) (*courtsession.Session, error) {
	args := m.Called(ctx, p, id, in)
	return result[*courtsession.Session](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) CancelSession(ctx context.Context, p auth.Principal, id string, in virtualcourt.CancelRequest) (*courtsession.Session, error) {
	args := m.Called(ctx, p, id, in)
	return result[*courtsession.Session](args), args.Error(1)
}

func (m *MockVirtualCourtUsecase) Leave(ctx context.Context, p auth.Principal, id string) (*virtualcourt.LeaveResponse, error) {
	args := m.Called(ctx, p, id)
	return result[*virtualcourt.LeaveResponse](args), args.Error(1)
}

type MockJudicialUsecase struct{ mock.Mock }

func (m *MockJudicialUsecase) DecisionSupport(ctx context.Context, caseID int64) (*judicialuc.DecisionSupport, error) {
	args := m.Called(ctx, caseID)
	return result[*judicialuc.DecisionSupport](args), args.Error(1)
}

func (m *MockJudicialUsecase) SearchPrecedents(ctx context.Context, in judicialuc.SearchRequest) ([]judicial.Precedent, error) {
	args := m.Called(ctx, in)
	return result[[]judicial.Precedent](args), args.Error(1)
}

type MockAnonymizeUsecase struct{ mock.Mock }

func (m *MockAnonymizeUsecase) EntityTypes() []anonymize.EntityInfo {
	return result[[]anonymize.EntityInfo](m.Called())
}

func (m *MockAnonymizeUsecase) Anonymize(ctx context.Context, in anonymizeuc.Request) (*anonymize.Result, error) {
	args := m.Called(ctx, in)
	return result[*anonymize.Result](args), args.Error(1)
}

func (m *MockAnonymizeUsecase) AnonymizeTranscript(ctx context.Context, in anonymizeuc.TranscriptRequest) (*anonymizeuc.TranscriptResult, error) {
	args := m.Called(ctx, in)
	return result[*anonymizeuc.TranscriptResult](args), args.Error(1)
}
