package services

import (
	"context"
	"testing"

	"ordermart/internal/common"
	"ordermart/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type OrderServiceTestSuite struct {
	suite.Suite
	orderRepo    *MockOrderRepository
	productRepo  *MockProductRepository
	customerRepo *MockCustomerRepository
	cacheSvc     *MockCacheService
	service      OrderServiceInterface
	customer     *models.Customer
	context      context.Context
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.orderRepo = new(MockOrderRepository)
	suite.productRepo = new(MockProductRepository)
	suite.customerRepo = new(MockCustomerRepository)
	suite.cacheSvc = new(MockCacheService)
	suite.service = NewOrderService(suite.orderRepo, suite.productRepo, suite.customerRepo, suite.cacheSvc)
	suite.customer = &models.Customer{
		ID:    uuid.New(),
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	}
	suite.context = context.Background()
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) product(name string, price float64, quantity int) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    price,
		Quantity: quantity,
	}
}

func (suite *OrderServiceTestSuite) TestCreateOrder_Success() {
	product := suite.product("Widget", 10.00, 5)

	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 2},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID}).Return([]*models.Product{product}, nil)
	suite.orderRepo.On("Create", suite.context, mock.AnythingOfType("*models.Order")).Return(nil)
	suite.productRepo.On("UpdateQuantities", suite.context, []models.StockAdjustment{
		{ProductID: product.ID, Previous: 5, Remaining: 3},
	}).Return(nil)
	suite.cacheSvc.On("DeleteProduct", suite.context, product.ID).Return(nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), order)
	assert.Equal(suite.T(), 20.00, order.Price)
	assert.Equal(suite.T(), suite.customer.ID, order.CustomerID)
	assert.Len(suite.T(), order.OrderProducts, 1)
	assert.Equal(suite.T(), 10.00, order.OrderProducts[0].Price)
	assert.Equal(suite.T(), 2, order.OrderProducts[0].Quantity)
	assert.Equal(suite.T(), order.ID, order.OrderProducts[0].OrderID)
	suite.productRepo.AssertExpectations(suite.T())
	suite.cacheSvc.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_MultipleProducts() {
	widget := suite.product("Widget", 10.00, 5)
	gadget := suite.product("Gadget", 3.50, 8)

	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: widget.ID, Quantity: 1},
			{ID: gadget.ID, Quantity: 4},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{widget.ID, gadget.ID}).
		Return([]*models.Product{widget, gadget}, nil)
	suite.orderRepo.On("Create", suite.context, mock.AnythingOfType("*models.Order")).Return(nil)
	suite.productRepo.On("UpdateQuantities", suite.context, []models.StockAdjustment{
		{ProductID: widget.ID, Previous: 5, Remaining: 4},
		{ProductID: gadget.ID, Previous: 8, Remaining: 4},
	}).Return(nil)
	suite.cacheSvc.On("DeleteProduct", suite.context, widget.ID).Return(nil)
	suite.cacheSvc.On("DeleteProduct", suite.context, gadget.ID).Return(nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 24.00, order.Price)
	assert.Len(suite.T(), order.OrderProducts, 2)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_CustomerNotFound() {
	req := &CreateOrderRequest{
		CustomerID: uuid.New(),
		Products: []OrderProductRequest{
			{ID: uuid.New(), Quantity: 1},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, req.CustomerID).Return(nil, nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrCustomerNotFound)
	assert.Nil(suite.T(), order)
	suite.productRepo.AssertNotCalled(suite.T(), "FindAllByID", mock.Anything, mock.Anything)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_EmptyOrder() {
	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products:   []OrderProductRequest{},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrEmptyOrder)
	assert.Nil(suite.T(), order)
	suite.productRepo.AssertNotCalled(suite.T(), "FindAllByID", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_ProductNotFound() {
	product := suite.product("Widget", 10.00, 5)
	missingID := uuid.New()

	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 1},
			{ID: missingID, Quantity: 1},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	// Only one of the two requested products exists
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID, missingID}).
		Return([]*models.Product{product}, nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrProductNotFound)
	assert.Contains(suite.T(), err.Error(), missingID.String())
	assert.Nil(suite.T(), order)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	suite.productRepo.AssertNotCalled(suite.T(), "UpdateQuantities", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_InsufficientStock() {
	product := suite.product("Widget", 10.00, 5)

	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 6},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID}).Return([]*models.Product{product}, nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
	assert.Contains(suite.T(), err.Error(), "Widget")
	assert.Nil(suite.T(), order)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
	suite.productRepo.AssertNotCalled(suite.T(), "UpdateQuantities", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_ZeroQuantity() {
	product := suite.product("Widget", 10.00, 5)

	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 0},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID}).Return([]*models.Product{product}, nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrInvalidQuantity)
	assert.Nil(suite.T(), order)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_RepeatedProductWithinStock() {
	product := suite.product("Widget", 10.00, 5)

	// The same product twice; the second line is validated against the
	// already-reduced working quantity
	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 2},
			{ID: product.ID, Quantity: 2},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID, product.ID}).
		Return([]*models.Product{product}, nil)
	suite.orderRepo.On("Create", suite.context, mock.AnythingOfType("*models.Order")).Return(nil)
	suite.productRepo.On("UpdateQuantities", suite.context, []models.StockAdjustment{
		{ProductID: product.ID, Previous: 5, Remaining: 1},
	}).Return(nil)
	suite.cacheSvc.On("DeleteProduct", suite.context, product.ID).Return(nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 40.00, order.Price)
	assert.Len(suite.T(), order.OrderProducts, 2)
	suite.productRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_RepeatedProductOverAllocates() {
	product := suite.product("Widget", 10.00, 5)

	// 3 + 3 exceeds the 5 on hand even though each line alone fits
	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 3},
			{ID: product.ID, Quantity: 3},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID, product.ID}).
		Return([]*models.Product{product}, nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrInsufficientStock)
	assert.Nil(suite.T(), order)
	suite.orderRepo.AssertNotCalled(suite.T(), "Create", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_StockUpdateFails() {
	product := suite.product("Widget", 10.00, 5)

	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 2},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID}).Return([]*models.Product{product}, nil)
	suite.orderRepo.On("Create", suite.context, mock.AnythingOfType("*models.Order")).Return(nil)
	suite.productRepo.On("UpdateQuantities", suite.context, mock.Anything).Return(common.ErrStockConflict)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrStockConflict)
	assert.Contains(suite.T(), err.Error(), "stock update failed")
	assert.Nil(suite.T(), order)
	suite.cacheSvc.AssertNotCalled(suite.T(), "DeleteProduct", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_PriceSnapshotIgnoresLaterChanges() {
	product := suite.product("Widget", 10.00, 5)

	req := &CreateOrderRequest{
		CustomerID: suite.customer.ID,
		Products: []OrderProductRequest{
			{ID: product.ID, Quantity: 2},
		},
	}

	suite.customerRepo.On("GetByID", suite.context, suite.customer.ID).Return(suite.customer, nil)
	suite.productRepo.On("FindAllByID", suite.context, []uuid.UUID{product.ID}).Return([]*models.Product{product}, nil)
	suite.orderRepo.On("Create", suite.context, mock.AnythingOfType("*models.Order")).Return(nil)
	suite.productRepo.On("UpdateQuantities", suite.context, mock.Anything).Return(nil)
	suite.cacheSvc.On("DeleteProduct", suite.context, product.ID).Return(nil)

	order, err := suite.service.CreateOrder(suite.context, req)
	assert.NoError(suite.T(), err)

	// Changing the catalog price afterwards must not affect the line item
	product.Price = 99.00
	assert.Equal(suite.T(), 10.00, order.OrderProducts[0].Price)
	assert.Equal(suite.T(), 20.00, order.Price)
}

func (suite *OrderServiceTestSuite) TestGetOrderByID_Success() {
	order := &models.Order{
		ID:         uuid.New(),
		CustomerID: suite.customer.ID,
		Price:      20.00,
	}

	suite.orderRepo.On("GetByID", suite.context, order.ID).Return(order, nil)

	result, err := suite.service.GetOrderByID(suite.context, order.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), order, result)
}

func (suite *OrderServiceTestSuite) TestGetOrderByID_NotFound() {
	orderID := uuid.New()

	suite.orderRepo.On("GetByID", suite.context, orderID).Return(nil, nil)

	result, err := suite.service.GetOrderByID(suite.context, orderID)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, common.ErrOrderNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *OrderServiceTestSuite) TestListOrders_ClampsPagination() {
	orders := []*models.Order{
		{ID: uuid.New(), CustomerID: suite.customer.ID, Price: 20.00},
	}

	suite.orderRepo.On("List", suite.context, 50, 0).Return(orders, nil)

	result, err := suite.service.ListOrders(suite.context, 0, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), result, 1)
	suite.orderRepo.AssertExpectations(suite.T())
}
