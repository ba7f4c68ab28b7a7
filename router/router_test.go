package router_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
	"github.com/xy-planning-network/switchboard"
	"github.com/xy-planning-network/switchboard/route"
	"github.com/xy-planning-network/switchboard/router"
)

func (suite *RouterTestSuite) TestOverridePrecedence() {
	// the most recently registered match wins,
	// so a narrow override carves an exception out of a broad one
	suite.rtr.OverrideValue(router.MatchCase(todosCase), []Todo{{Title: "broad"}})
	suite.rtr.OverrideValue(router.MatchCase(fetchTodosCase), []Todo{{Title: "narrow"}})

	todos, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{{Title: "narrow"}}, todos)

	// a sibling case only the broad override matches
	todos, err = router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(DeleteTodo{ID: "1"}))
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{{Title: "broad"}}, todos)

	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestExactRouteMatchIgnoresPayload() {
	ctx := switchboard.NewCurrentUserContext(context.Background(), uuid.New())

	want, err := InsertTodo{Title: "anything"}.Resolve(ctx)
	suite.Require().Nil(err)

	suite.rtr.OverrideValue(router.MatchRoute[AppRoute](want), []Todo{{Title: "canned"}})

	// two inserts with different payloads both hit the exact-route override
	for _, title := range []string{"first", "second"} {
		todos, err := router.Call[[]Todo](ctx, suite.rtr, AppRoute(InsertTodo{Title: title}))
		suite.Require().Nil(err)
		suite.Require().Equal([]Todo{{Title: "canned"}}, todos)
	}

	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestLiveExecutionExactlyOnce() {
	ctx := switchboard.NewCurrentUserContext(context.Background(), uuid.New())
	suite.exec.response = []byte(`[{"title":"Buy milk"}]`)

	todos, err := router.Call[[]Todo](ctx, suite.rtr, AppRoute(InsertTodo{Title: "Buy milk"}))
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{{Title: "Buy milk"}}, todos)

	executed := suite.exec.executed()
	suite.Require().Len(executed, 1)
	suite.Require().Equal(route.MethodInsert, executed[0].Method)
	suite.Require().Equal("todos", executed[0].Table)

	// no caching between calls: a second call executes again
	_, err = router.Call[[]Todo](ctx, suite.rtr, AppRoute(InsertTodo{Title: "Buy milk"}))
	suite.Require().Nil(err)
	suite.Require().Len(suite.exec.executed(), 2)
}

func (suite *RouterTestSuite) TestResetOverrides() {
	suite.rtr.OverrideValue(router.MatchCase(fetchTodosCase), []Todo{{Title: "canned"}})

	todos, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{{Title: "canned"}}, todos)
	suite.Require().Empty(suite.exec.executed())

	suite.rtr.ResetOverrides()

	todos, err = router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().Nil(err)
	suite.Require().Empty(todos)
	suite.Require().Len(suite.exec.executed(), 1)
}

func (suite *RouterTestSuite) TestCaseOverrideAnswersWithEmptyList() {
	suite.rtr.OverrideValue(router.MatchCase(fetchTodosCase), []Todo{})

	todos, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{}, todos)
	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestMethodOverrideSpansRoutes() {
	suite.rtr.Override(router.MatchMethod[AppRoute](route.MethodDelete, "todos"))

	suite.Require().Nil(suite.rtr.Run(context.Background(), DeleteTodo{ID: "5"}))
	suite.Require().Nil(suite.rtr.Run(context.Background(), DeleteTodo{ID: "9"}))
	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestLayeredOverrides() {
	suite.rtr.OverrideError(router.MatchCase(todosCase), testErr)
	suite.rtr.OverrideValue(
		router.MatchRoute[AppRoute](route.Fetch("todos")),
		[]Todo{{Title: "winner"}},
	)

	todos, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{{Title: "winner"}}, todos)

	err = suite.rtr.Run(context.Background(), DeleteTodo{ID: "1"})
	suite.Require().ErrorIs(err, testErr)

	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestUnauthenticatedResolutionFailsFirst() {
	var produced atomic.Int64
	suite.rtr.OverrideFunc(
		router.MatchMethod[AppRoute](route.MethodInsert, "todos"),
		func(context.Context, AppRoute) (any, error) {
			produced.Add(1)
			return Todo{}, nil
		},
	)

	// no current user in ctx: resolution fails during override matching,
	// before the producer or the executor can run
	err := suite.rtr.Run(context.Background(), InsertTodo{Title: "Buy milk"})
	suite.Require().ErrorIs(err, switchboard.ErrNotAuthenticated)
	suite.Require().Zero(produced.Load())
	suite.Require().Empty(suite.exec.executed())
}

func (suite *RouterTestSuite) TestRouteIDOverride() {
	suite.rtr.ResetOverrides()

	rtr := router.New[resetDemo](router.Config{Logger: quietLogger()})
	rtr.OverrideValue(router.MatchRouteID[resetDemo]("reset", ""), 42)

	n, err := router.Call[int](context.Background(), rtr, resetDemo{})
	suite.Require().Nil(err)
	suite.Require().Equal(42, n)
}

func (suite *RouterTestSuite) TestUnimplementedExecutorByDefault() {
	rtr := router.New[AppRoute](router.Config{Logger: quietLogger()})

	err := rtr.Run(context.Background(), FetchTodos{})
	suite.Require().ErrorIs(err, switchboard.ErrUnimplemented)
}

func (suite *RouterTestSuite) TestVoidOverrideRejectsDecodingCall() {
	suite.rtr.Override(router.MatchCase(fetchTodosCase))

	suite.Require().Nil(suite.rtr.Run(context.Background(), FetchTodos{}))

	_, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().ErrorIs(err, switchboard.ErrOverride)
}

func (suite *RouterTestSuite) TestOverrideValueMismatch() {
	suite.rtr.OverrideValue(router.MatchCase(fetchTodosCase), "not a list of todos")

	_, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().ErrorIs(err, switchboard.ErrOverride)

	// the mismatched value is irrelevant to a void call
	suite.Require().Nil(suite.rtr.Run(context.Background(), FetchTodos{}))
}

func (suite *RouterTestSuite) TestDecodeErrorSurfaces() {
	suite.exec.response = []byte(`{"this is": "not a list"}`)

	_, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
	suite.Require().ErrorIs(err, switchboard.ErrDecode)
}

func (suite *RouterTestSuite) TestTransportErrorSurfaces() {
	suite.exec.err = fmt.Errorf("%w: connection refused", switchboard.ErrTransport)

	err := suite.rtr.Run(context.Background(), FetchTodos{})
	suite.Require().ErrorIs(err, switchboard.ErrTransport)
}

func (suite *RouterTestSuite) TestOverrideFuncReceivesOriginalValue() {
	suite.rtr.OverrideFunc(
		router.MatchCase(todosCase),
		func(_ context.Context, rc AppRoute) (any, error) {
			del, ok := rc.(DeleteTodo)
			if !ok {
				return nil, errors.New("expected the original DeleteTodo value")
			}

			return []Todo{{Title: "deleted " + del.ID}}, nil
		},
	)

	todos, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(DeleteTodo{ID: "7"}))
	suite.Require().Nil(err)
	suite.Require().Equal([]Todo{{Title: "deleted 7"}}, todos)
}

func (suite *RouterTestSuite) TestConcurrentCallsAndRegistration() {
	suite.rtr.OverrideValue(router.MatchCase(fetchTodosCase), []Todo{})

	var wg conc.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Go(func() {
			todos, err := router.Call[[]Todo](context.Background(), suite.rtr, AppRoute(FetchTodos{}))
			suite.Require().Nil(err)
			suite.Require().Empty(todos)
		})
		wg.Go(func() {
			suite.Require().Nil(suite.rtr.Run(context.Background(), DeleteTodo{ID: "1"}))
		})
		if i%8 == 0 {
			wg.Go(func() {
				suite.rtr.Override(router.MatchMethod[AppRoute](route.MethodDelete, "todos"))
			})
		}
	}
	wg.Wait()
}

// resetDemo is a single-case collection for a custom remote procedure.
type resetDemo struct{}

func (resetDemo) Resolve(_ context.Context) (route.Route, error) {
	return route.Custom("reset_demo", route.WithID("reset")), nil
}
