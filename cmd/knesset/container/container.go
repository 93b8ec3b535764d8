package container

import (
	"github.com/karopastal/Open-Knesset/cmd/knesset/service"
	"github.com/karopastal/Open-Knesset/common/bootstrap"
	"github.com/karopastal/Open-Knesset/common/repository"
)

// Container holds all initialized services and repositories (singleton pattern)
type Container struct {
	// Components
	Components *bootstrap.Components

	// Repositories
	MemberRepo   *repository.MemberRepository
	PartyRepo    *repository.PartyRepository
	KnessetRepo  *repository.KnessetRepository
	VoteRepo     *repository.VoteRepository
	BillRepo     *repository.BillRepository
	MeetingRepo  *repository.MeetingRepository
	ProposalRepo *repository.ProposalRepository
	ActivityRepo *repository.ActivityRepository
	SocialRepo   *repository.SocialRepository
	LawRepo      *repository.LawRepository
	StatsRepo    *repository.StatsRepository

	// Services
	Classifier  *service.Classifier
	StageEngine *service.StageEngine
	Discipline  *service.Discipline
	Merger      *service.Merger
	BillService *service.BillService
}

// NewContainer initializes all services and repositories once
func NewContainer(components *bootstrap.Components) (*Container, error) {
	// Initialize repositories
	memberRepo := repository.NewMemberRepository(components.DB)
	partyRepo := repository.NewPartyRepository(components.DB)
	knessetRepo := repository.NewKnessetRepository(components.DB)
	voteRepo := repository.NewVoteRepository(components.DB)
	billRepo := repository.NewBillRepository(components.DB)
	meetingRepo := repository.NewMeetingRepository(components.DB)
	proposalRepo := repository.NewProposalRepository(components.DB)
	activityRepo := repository.NewActivityRepository(components.DB)
	socialRepo := repository.NewSocialRepository(components.DB)
	lawRepo := repository.NewLawRepository(components.DB)
	statsRepo := repository.NewStatsRepository(components.DB)

	// Initialize services (bottom-up: dependencies first)
	classifier := service.NewClassifier(
		voteRepo,
		billRepo,
		memberRepo,
		partyRepo,
		components.Config.Classifier.StandsForThreshold,
		components.Logger,
	)

	stageEngine := service.NewStageEngine(
		billRepo,
		voteRepo,
		meetingRepo,
		proposalRepo,
		activityRepo,
		components.Logger,
	)

	discipline := service.NewDiscipline(
		statsRepo,
		memberRepo,
		partyRepo,
		knessetRepo,
		components.Cache,
		components.Config.Cache.DefaultTTL,
		components.Config.Statistics.MinSampleSize,
		components.Logger,
	)

	merger := service.NewMerger(
		billRepo,
		proposalRepo,
		socialRepo,
		lawRepo,
		stageEngine,
		components.Logger,
	)

	billService := service.NewBillService(
		billRepo,
		voteRepo,
		proposalRepo,
		stageEngine,
		components.Logger,
	)

	return &Container{
		Components:   components,
		MemberRepo:   memberRepo,
		PartyRepo:    partyRepo,
		KnessetRepo:  knessetRepo,
		VoteRepo:     voteRepo,
		BillRepo:     billRepo,
		MeetingRepo:  meetingRepo,
		ProposalRepo: proposalRepo,
		ActivityRepo: activityRepo,
		SocialRepo:   socialRepo,
		LawRepo:      lawRepo,
		StatsRepo:    statsRepo,
		Classifier:   classifier,
		StageEngine:  stageEngine,
		Discipline:   discipline,
		Merger:       merger,
		BillService:  billService,
	}, nil
}

// NewIngestor builds a votes-page ingestor over the given source. The source
// differs per invocation (scraped file today, live fetch later), so the
// ingestor is not a singleton field.
func (c *Container) NewIngestor(source service.VotesPageSource) *service.Ingestor {
	return service.NewIngestor(source, c.VoteRepo, c.MemberRepo, c.Classifier, c.Components.Logger)
}
