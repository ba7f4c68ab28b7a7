package router_test

import (
	"context"

	"github.com/xy-planning-network/switchboard/route"
	"github.com/xy-planning-network/switchboard/router"
)

func (suite *RouterTestSuite) TestScopedProxyDelegatesToParent() {
	// overrides live on the root router; the proxy is only a view
	suite.rtr.OverrideValue(router.MatchCase(fetchTodosCase), []Todo{{Title: "canned"}})

	todos := router.Scoped(suite.rtr, todosCase)

	scoped, err := router.CallScoped[[]Todo](context.Background(), todos, TodosRoute(FetchTodos{}))
	suite.Require().Nil(err)

	direct, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().Nil(err)

	suite.Require().Equal(direct, scoped)
	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestScopedProxyLiveExecutionMatchesParent() {
	todos := router.Scoped(suite.rtr, todosCase)

	suite.Require().Nil(todos.Run(context.Background(), DeleteTodo{ID: "5"}))
	suite.Require().Nil(suite.rtr.Run(context.Background(), DeleteTodo{ID: "5"}))

	executed := suite.exec.executed()
	suite.Require().Len(executed, 2)
	suite.Require().True(executed[0].Equal(executed[1]))
}

func (suite *RouterTestSuite) TestNarrowComposesEmbeds() {
	suite.rtr.OverrideValue(router.MatchCase(fetchTodosCase), []Todo{{Title: "canned"}})

	todos := router.Scoped(suite.rtr, todosCase)
	fetches := router.Narrow(todos, todosFetchCase)

	got, err := router.CallScoped[[]Todo](context.Background(), fetches, FetchTodos{})
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{{Title: "canned"}}, got)
	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestProxySeesLaterOverrides() {
	todos := router.Scoped(suite.rtr, todosCase)

	suite.Require().Nil(todos.Run(context.Background(), DeleteTodo{ID: "5"}))
	suite.Require().Len(suite.exec.executed(), 1)

	// registering on the root after construction still reaches the proxy
	suite.rtr.Override(router.MatchMethod[AppRoute](route.MethodDelete, "todos"))

	suite.Require().Nil(todos.Run(context.Background(), DeleteTodo{ID: "5"}))
	suite.Require().Len(suite.exec.executed(), 1)
}
