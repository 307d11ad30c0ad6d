package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"grocerylist-api/internal/dto"
	"grocerylist-api/internal/models"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestItemHandler(t *testing.T) {
	suite.Run(t, new(ItemHandlerSuite))
}

type ItemHandlerSuite struct {
	suite.Suite
	env     *testEnv
	handler *ItemHandler
	userID  uuid.UUID
}

func (s *ItemHandlerSuite) SetupTest() {
	s.env = newTestEnv(s.T())
	s.handler = NewItemHandler(s.env.itemService)
	s.userID = s.env.createUser(s.T(), "shopper@example.com").ID
}

func (s *ItemHandlerSuite) newContext(method, path string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.env.e.NewContext(req, rec)
	c.Set("user_id", s.userID)
	return c, rec
}

func (s *ItemHandlerSuite) addItem(name, category string) dto.ItemResponse {
	c, rec := s.newContext(http.MethodPost, "/items", dto.AddItemRequest{
		Name:     name,
		Category: category,
	})
	s.Require().NoError(s.handler.AddItem(c))
	s.Require().Equal(http.StatusCreated, rec.Code)

	var response SuccessResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))

	var item dto.ItemResponse
	raw, _ := json.Marshal(response.Data)
	s.Require().NoError(json.Unmarshal(raw, &item))
	return item
}

func (s *ItemHandlerSuite) TestAddItem_AutoCategorized() {
	item := s.addItem("Whole milk", "")

	s.Equal("Whole milk", item.Name)
	s.Equal(string(models.CategoryDairy), item.Category)
	s.Equal("1", item.Quantity)
	s.Equal(s.userID, item.AddedBy)
	s.False(item.Completed)
}

func (s *ItemHandlerSuite) TestAddItem_ExplicitCategoryTeachesCategorizer() {
	item := s.addItem("Szechuan sauce", string(models.CategorySauce))
	s.Equal(string(models.CategorySauce), item.Category)

	// The manual assignment feeds the learning loop
	category, err := s.env.keywordRepo.FindExact("szechuan sauce")
	s.NoError(err)
	s.Equal(models.CategorySauce, category)
}

func (s *ItemHandlerSuite) TestAddItem_UnknownNameFallsBack() {
	item := s.addItem("Zorblax", "")
	s.Equal(string(models.CategoryUnknown), item.Category)
}

func (s *ItemHandlerSuite) TestAddItem_MissingAuth() {
	c, rec := s.newContext(http.MethodPost, "/items", dto.AddItemRequest{Name: "Milk"})
	c.Set("user_id", nil)

	err := s.handler.AddItem(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Contains(rec.Body.String(), "AUTH_002")
}

func (s *ItemHandlerSuite) TestAddItem_InvalidQuantity() {
	c, rec := s.newContext(http.MethodPost, "/items", dto.AddItemRequest{
		Name:     "Milk",
		Quantity: "not-a-number",
	})

	err := s.handler.AddItem(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "ITEM_003")
}

func (s *ItemHandlerSuite) TestListItems() {
	s.addItem("Milk", "")
	s.addItem("Bread", "")

	c, rec := s.newContext(http.MethodGet, "/items", nil)
	err := s.handler.ListItems(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response dto.ListItemsResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(2, response.Total)
	s.Len(response.Items, 2)
}

func (s *ItemHandlerSuite) TestListItems_CategoryFilter() {
	s.addItem("Milk", string(models.CategoryDairy))
	s.addItem("Apples", string(models.CategoryFruit))

	req := httptest.NewRequest(http.MethodGet, "/items?category=dairy", nil)
	rec := httptest.NewRecorder()
	c := s.env.e.NewContext(req, rec)
	c.Set("user_id", s.userID)

	err := s.handler.ListItems(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response dto.ListItemsResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(1, response.Total)
	s.Equal("Milk", response.Items[0].Name)
}

func (s *ItemHandlerSuite) TestListItems_UnknownCategory() {
	req := httptest.NewRequest(http.MethodGet, "/items?category=warpdrive", nil)
	rec := httptest.NewRecorder()
	c := s.env.e.NewContext(req, rec)

	err := s.handler.ListItems(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "CATEGORY_001")
}

func (s *ItemHandlerSuite) TestGetItem() {
	item := s.addItem("Eggs", "")

	c, rec := s.newContext(http.MethodGet, "/items/"+item.ID.String(), nil)
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err := s.handler.GetItem(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Eggs")
}

func (s *ItemHandlerSuite) TestGetItem_NotFound() {
	c, rec := s.newContext(http.MethodGet, "/items/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := s.handler.GetItem(c)
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "ITEM_001")
}

func (s *ItemHandlerSuite) TestGetItem_BadID() {
	c, rec := s.newContext(http.MethodGet, "/items/nope", nil)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	err := s.handler.GetItem(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *ItemHandlerSuite) TestToggleItem() {
	item := s.addItem("Coffee", "")

	c, rec := s.newContext(http.MethodPut, "/items/toggle", dto.ToggleItemRequest{Completed: true})
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err := s.handler.ToggleItem(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	stored, err := s.env.itemRepo.GetByID(item.ID)
	s.NoError(err)
	s.True(stored.Completed)
	s.NotNil(stored.CompletedBy)
	s.Equal(s.userID, *stored.CompletedBy)

	// Reopen
	c, rec = s.newContext(http.MethodPut, "/items/toggle", dto.ToggleItemRequest{Completed: false})
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err = s.handler.ToggleItem(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	stored, err = s.env.itemRepo.GetByID(item.ID)
	s.NoError(err)
	s.False(stored.Completed)
	s.Nil(stored.CompletedBy)
}

func (s *ItemHandlerSuite) TestUpdateQuantity() {
	item := s.addItem("Rice", "")

	c, rec := s.newContext(http.MethodPut, "/items/quantity", dto.UpdateQuantityRequest{
		Quantity: "2.5",
		Unit:     "kg",
	})
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err := s.handler.UpdateQuantity(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "2.5")
	s.Contains(rec.Body.String(), "kg")
}

func (s *ItemHandlerSuite) TestUpdateQuantity_Invalid() {
	item := s.addItem("Rice", "")

	c, rec := s.newContext(http.MethodPut, "/items/quantity", dto.UpdateQuantityRequest{
		Quantity: "three",
	})
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err := s.handler.UpdateQuantity(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "ITEM_003")
}

func (s *ItemHandlerSuite) TestAssignCategory() {
	item := s.addItem("Zorblax", "")
	s.Equal(string(models.CategoryUnknown), item.Category)

	c, rec := s.newContext(http.MethodPut, "/items/category", dto.AssignCategoryRequest{
		Category: string(models.CategorySnacks),
	})
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err := s.handler.AssignCategory(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	stored, err := s.env.itemRepo.GetByID(item.ID)
	s.NoError(err)
	s.Equal(models.CategorySnacks, stored.Category)

	// The correction is learned for next time
	category, err := s.env.keywordRepo.FindExact("zorblax")
	s.NoError(err)
	s.Equal(models.CategorySnacks, category)
}

func (s *ItemHandlerSuite) TestDeleteItem() {
	item := s.addItem("Spinach", "")

	c, rec := s.newContext(http.MethodDelete, "/items/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err := s.handler.DeleteItem(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	c, rec = s.newContext(http.MethodDelete, "/items/x", nil)
	c.SetParamNames("id")
	c.SetParamValues(item.ID.String())

	err = s.handler.DeleteItem(c)
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *ItemHandlerSuite) TestGetCategorySummary() {
	s.addItem("Milk", string(models.CategoryDairy))
	s.addItem("Cheese", string(models.CategoryDairy))
	s.addItem("Apples", string(models.CategoryFruit))

	c, rec := s.newContext(http.MethodGet, "/items/summary", nil)
	err := s.handler.GetCategorySummary(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var response SuccessResponse
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &response))

	var summaries []dto.CategorySummaryResponse
	raw, _ := json.Marshal(response.Data)
	s.NoError(json.Unmarshal(raw, &summaries))
	s.Len(summaries, 2)

	byCategory := map[string]dto.CategorySummaryResponse{}
	for _, row := range summaries {
		byCategory[row.Category] = row
	}
	s.Equal(int64(2), byCategory["dairy"].ItemCount)
	s.Equal(int64(1), byCategory["fruit"].ItemCount)

	// Names with keywords in them should not leak into the summary
	s.False(strings.Contains(rec.Body.String(), "Cheese"))
}
