package promorepo_test

import (
	"context"
	"testing"
	"time"

	"checkout/internal/adapters/out/postgres/promorepo"
	"checkout/internal/core/domain/model/kernel"
	"checkout/internal/core/domain/model/order"
	"checkout/internal/core/domain/model/promotion"
	"checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// stubOrderHistory backs reconstructed first-order rules in tests.
type stubOrderHistory struct {
	hasCompleted bool
}

func (s stubOrderHistory) HasCompletedOrder(_ *order.Order) (bool, error) {
	return s.hasCompleted, nil
}

// PromotionRepositoryIntegrationTestSuite verifies that promotions and their
// rules survive the JSON roundtrip through the database.
type PromotionRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *promorepo.GormPromotionRepository
}

func (suite *PromotionRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&promorepo.PromotionDTO{}, &promorepo.RuleDTO{}))
}

func (suite *PromotionRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE promotions, promotion_rules").Error)
	suite.repository = promorepo.NewGormPromotionRepository(suite.db, stubOrderHistory{})
}

func (suite *PromotionRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *PromotionRepositoryIntegrationTestSuite) TestAddAndGet_RulesRoundtrip() {
	ctx := context.Background()

	action, err := promotion.NewPercentOffItemsAction(decimal.NewFromInt(15))
	suite.Require().NoError(err)

	promo, err := promotion.NewPromotion(kernel.NewUUID(), "Spring sale", action)
	suite.Require().NoError(err)

	quantityRule, err := promotion.NewMinimumQuantityRule(3)
	suite.Require().NoError(err)
	suite.Require().NoError(promo.AddRule(quantityRule))

	totalRule, err := promotion.NewItemTotalRule(usd("50.00"))
	suite.Require().NoError(err)
	suite.Require().NoError(promo.AddRule(totalRule))

	variantID := kernel.NewUUID()
	cartRule, err := promotion.NewProductInCartRule([]kernel.UUID{variantID})
	suite.Require().NoError(err)
	suite.Require().NoError(promo.AddRule(cartRule))

	suite.Require().NoError(suite.repository.Add(ctx, promo))

	retrieved, err := suite.repository.Get(ctx, promo.ID())
	suite.Require().NoError(err)

	suite.Equal(promo.ID(), retrieved.ID())
	suite.Equal("Spring sale", retrieved.Name())
	suite.Require().Len(retrieved.Rules(), 3)

	percent, ok := retrieved.Action().(*promotion.PercentOffItemsAction)
	suite.Require().True(ok)
	suite.True(percent.Percent().Equal(decimal.NewFromInt(15)))

	kinds := make(map[promotion.RuleKind]promotion.Rule, 3)
	for _, r := range retrieved.Rules() {
		kinds[r.Kind()] = r
	}

	quantity, ok := kinds[promotion.RuleMinimumQuantity].(*promotion.MinimumQuantityRule)
	suite.Require().True(ok)
	suite.Equal(3, quantity.Minimum())

	total, ok := kinds[promotion.RuleItemTotal].(*promotion.ItemTotalRule)
	suite.Require().True(ok)
	suite.True(total.Threshold().IsEqual(usd("50.00")))

	cart, ok := kinds[promotion.RuleProductInCart].(*promotion.ProductInCartRule)
	suite.Require().True(ok)
	suite.ElementsMatch([]kernel.UUID{variantID}, cart.VariantIDs())
}

func (suite *PromotionRepositoryIntegrationTestSuite) TestAddAndGet_FlatDiscountWithFirstOrderRule() {
	ctx := context.Background()

	action, err := promotion.NewFlatDiscountAction(usd("5.00"))
	suite.Require().NoError(err)

	promo, err := promotion.NewPromotion(kernel.NewUUID(), "Welcome", action)
	suite.Require().NoError(err)

	firstOrderRule, err := promotion.NewFirstOrderRule(stubOrderHistory{})
	suite.Require().NoError(err)
	suite.Require().NoError(promo.AddRule(firstOrderRule))

	suite.Require().NoError(suite.repository.Add(ctx, promo))

	retrieved, err := suite.repository.Get(ctx, promo.ID())
	suite.Require().NoError(err)

	flat, ok := retrieved.Action().(*promotion.FlatDiscountAction)
	suite.Require().True(ok)
	suite.True(flat.Amount().IsEqual(usd("5.00")))

	// The reconstructed rule consults the repository's history collaborator.
	testOrder, err := order.NewOrder(kernel.NewUUID(), kernel.USD)
	suite.Require().NoError(err)

	eligible, err := retrieved.Eligible(testOrder)
	suite.Require().NoError(err)
	suite.True(eligible)
}

func (suite *PromotionRepositoryIntegrationTestSuite) TestGetAllActive_SkipsDeactivatedPromotions() {
	ctx := context.Background()

	action, err := promotion.NewPercentOffItemsAction(decimal.NewFromInt(10))
	suite.Require().NoError(err)

	active, err := promotion.NewPromotion(kernel.NewUUID(), "Active", action)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, active))

	retired, err := promotion.NewPromotion(kernel.NewUUID(), "Retired", action)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, retired))

	suite.Require().NoError(suite.db.Model(&promorepo.PromotionDTO{}).
		Where("id = ?", retired.ID().Bytes()).
		Update("active", false).Error)

	promotions, err := suite.repository.GetAllActive(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(promotions, 1)
	suite.Equal(active.ID(), promotions[0].ID())
}

func (suite *PromotionRepositoryIntegrationTestSuite) TestGet_NonExistentPromotion_ReturnsNotFoundError() {
	ctx := context.Background()

	retrieved, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func usd(amount string) kernel.Money {
	m, err := kernel.MoneyFromString(amount, kernel.USD)
	if err != nil {
		panic(err)
	}
	return m
}

func TestPromotionRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(PromotionRepositoryIntegrationTestSuite))
}
