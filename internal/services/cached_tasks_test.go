package services_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"task-management-system/backend/internal/cache"
	"task-management-system/backend/internal/models"
	"task-management-system/backend/internal/repositories"
	"task-management-system/backend/internal/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type CachedTaskServiceTestSuite struct {
	suite.Suite
	redis   *miniredis.Miniredis
	cache   *cache.RedisCache
	service *services.CachedTaskService
	user    models.User
}

func (suite *CachedTaskServiceTestSuite) SetupTest() {
	mr := miniredis.RunT(suite.T())
	suite.redis = mr
	suite.cache = cache.NewRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	suite.Require().NoError(db.AutoMigrate(&models.User{}, &models.Task{}))

	suite.user = models.User{Username: "worker", Password: "x", Role: "User"}
	suite.Require().NoError(db.Create(&suite.user).Error)

	inner := services.NewTaskService(repositories.NewTaskRepository(db), services.NewUserService(db))
	suite.service = services.NewCachedTaskService(inner, suite.cache)
}

func (suite *CachedTaskServiceTestSuite) createTask(title string) models.Task {
	res, err := suite.service.CreateTask(context.Background(), models.TaskRequest{
		Title:          title,
		AssignedUserID: suite.user.ID,
	})
	suite.Require().NoError(err)
	suite.Require().True(res.IsSuccess())
	return res.Value()
}

func (suite *CachedTaskServiceTestSuite) TestGetAllTasks_PopulatesCache() {
	suite.createTask("a")

	views, err := suite.service.GetAllTasks(context.Background())
	suite.Require().NoError(err)
	suite.Len(views, 1)

	exists, err := suite.cache.Exists("tasks:all")
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *CachedTaskServiceTestSuite) TestGetAllTasks_ServedFromCacheUntilInvalidated() {
	suite.createTask("a")

	views, err := suite.service.GetAllTasks(context.Background())
	suite.Require().NoError(err)
	suite.Len(views, 1)

	// A write through the decorator drops the projection.
	suite.createTask("b")
	exists, err := suite.cache.Exists("tasks:all")
	suite.Require().NoError(err)
	suite.False(exists)

	views, err = suite.service.GetAllTasks(context.Background())
	suite.Require().NoError(err)
	suite.Len(views, 2)
}

func (suite *CachedTaskServiceTestSuite) TestGetTasksByUserID_CachesSuccessOnly() {
	// A failed lookup must not be cached.
	res, err := suite.service.GetTasksByUserID(context.Background(), 9999)
	suite.Require().NoError(err)
	suite.False(res.IsSuccess())

	exists, err := suite.cache.Exists("tasks:user:9999")
	suite.Require().NoError(err)
	suite.False(exists)

	suite.createTask("a")
	res, err = suite.service.GetTasksByUserID(context.Background(), suite.user.ID)
	suite.Require().NoError(err)
	suite.Require().True(res.IsSuccess())

	exists, err = suite.cache.Exists(userKey(suite.user.ID))
	suite.Require().NoError(err)
	suite.True(exists)
}

func (suite *CachedTaskServiceTestSuite) TestUpdateInvalidatesPerUserLists() {
	task := suite.createTask("a")

	res, err := suite.service.GetTasksByUserID(context.Background(), suite.user.ID)
	suite.Require().NoError(err)
	suite.Require().True(res.IsSuccess())

	adminPrincipal := models.NewPrincipal("99", "Admin")
	update, err := suite.service.UpdateTask(context.Background(), task.ID, models.TaskRequest{
		Title:          "a",
		Status:         "completed",
		AssignedUserID: suite.user.ID,
	}, adminPrincipal)
	suite.Require().NoError(err)
	suite.Require().True(update.IsSuccess())

	exists, err := suite.cache.Exists(userKey(suite.user.ID))
	suite.Require().NoError(err)
	suite.False(exists)
}

func (suite *CachedTaskServiceTestSuite) TestPermissionReadsBypassCache() {
	task := suite.createTask("a")

	owner := models.NewPrincipal(itoa(suite.user.ID), "User")
	res, err := suite.service.GetTaskByID(context.Background(), task.ID, owner)
	suite.Require().NoError(err)
	suite.True(res.IsSuccess())

	other := models.NewPrincipal("12345", "User")
	res, err = suite.service.GetTaskByID(context.Background(), task.ID, other)
	suite.Require().NoError(err)
	suite.False(res.IsSuccess(), "permission checks must run on every read")
}

func TestCachedTaskServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CachedTaskServiceTestSuite))
}

func userKey(id int) string { return fmt.Sprintf("tasks:user:%d", id) }

func itoa(n int) string { return strconv.Itoa(n) }
