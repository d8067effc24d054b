package integration_test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/GovindharajM27/ticketbookingapp/api"
)

type BookingFlowTestSuite struct {
	BaseSuite
}

func TestBookingFlowSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(BookingFlowTestSuite))
}

func (s *BookingFlowTestSuite) SetupTest() {
	resetState(s.T(), s.app)
}

func (s *BookingFlowTestSuite) TestBookingFlow() {
	cookies := s.app.authenticatedUserCookies(s.T())

	var bookingID string

	scenarios := []Scenario{
		{
			Name:             "rejects checkout without an authenticated user",
			Method:           "POST",
			URL:              "/movies/m1/checkout",
			ExpectedStatus:   http.StatusUnauthorized,
			ExpectedResponse: `{"message": "You must be authenticated to access this resource"}`,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var count int
				err := app.DB.QueryRow(context.Background(), "SELECT count(*) FROM bookings").Scan(&count)
				require.NoError(t, err)
				require.Zero(t, count)
			},
		},
		{
			Name:           "selects a seat",
			Method:         "POST",
			URL:            "/movies/m1/selection/seats",
			Body:           strings.NewReader(`{"seatId": "A1"}`),
			Cookies:        cookies,
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"movieId": "m1",
				"seats": ["A1"],
				"totalPrice": "200",
				"holdTime": 600
			}`,
		},
		{
			Name:           "adds a second seat to the selection",
			Method:         "POST",
			URL:            "/movies/m1/selection/seats",
			Body:           strings.NewReader(`{"seatId": "A2"}`),
			Cookies:        cookies,
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"movieId": "m1",
				"seats": ["A1", "A2"],
				"totalPrice": "400",
				"holdTime": 600
			}`,
		},
		{
			Name:           "shows held seats as unavailable to other visitors",
			Method:         "GET",
			URL:            "/movies/m1/seats",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var response api.SeatMapResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&response))

				require.Equal(t, "m1", response.MovieId)
				require.Equal(t, 6, response.Rows)
				require.Equal(t, 8, response.Columns)

				availability := seatAvailability(response)
				require.False(t, availability["A1"])
				require.False(t, availability["A2"])
				require.True(t, availability["B1"])
			},
		},
		{
			Name:             "rejects checkout for a movie without a selection",
			Method:           "POST",
			URL:              "/movies/m2/checkout",
			Cookies:          cookies,
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "The requested resource not found"}`,
		},
		{
			Name:           "commits the selection into a booking",
			Method:         "POST",
			URL:            "/movies/m1/checkout",
			Cookies:        cookies,
			ExpectedStatus: http.StatusCreated,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var response api.CheckoutResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&response))

				require.NotEmpty(t, response.Booking.Id)
				require.Equal(t, "m1", response.Booking.MovieId)
				require.Equal(t, TestMovieTitle, response.Booking.MovieTitle)
				require.Equal(t, []string{"A1", "A2"}, response.Booking.Seats)
				require.Equal(t, "400", response.Booking.TotalPrice.String())
				require.Equal(t, "Confirmed", response.Booking.Status)

				bookingID = response.Booking.Id

				ctx := context.Background()
				for _, key := range []string{"seat_hold:m1:A1", "seat_hold:m1:A2"} {
					err := app.RedisClient.Get(ctx, key).Err()
					require.ErrorIs(t, err, redis.Nil, "seat hold %s should be released after checkout", key)
				}

				require.Eventually(t, func() bool {
					return len(app.Mailer.GetSentEmails()) == 1
				}, 3*time.Second, 50*time.Millisecond, "confirmation email should be sent")
			},
		},
		{
			Name:           "lists the booking for the user",
			Method:         "GET",
			URL:            "/users/me/bookings",
			Cookies:        cookies,
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var response api.UserBookingsResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&response))

				require.Len(t, response.Bookings, 1)
				require.Equal(t, bookingID, response.Bookings[0].Id)
				require.Equal(t, 1, response.Metadata.TotalRecords)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}

	s.Run("returns the booking by ID", func() {
		Scenario{
			Name:           "returns the booking by ID",
			Method:         "GET",
			URL:            "/users/me/bookings/" + bookingID,
			Cookies:        cookies,
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var response api.Booking
				require.NoError(t, json.NewDecoder(res.Body).Decode(&response))

				require.Equal(t, bookingID, response.Id)
				require.Equal(t, []string{"A1", "A2"}, response.Seats)
			},
		}.Run(s.T(), s.app)
	})
}

func (s *BookingFlowTestSuite) TestCommittedSeatsStayUnavailable() {
	cookies := s.app.authenticatedUserCookies(s.T())

	bookSeat(s.T(), s.app, cookies, "m1", "A1")

	otherCookies := s.app.loginCookies(s.T(), "second@example.com")

	scenarios := []Scenario{
		{
			Name:             "rejects selecting a committed seat",
			Method:           "POST",
			URL:              "/movies/m1/selection/seats",
			Body:             strings.NewReader(`{"seatId": "A1"}`),
			Cookies:          otherCookies,
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"message": "seat does not exist or is already booked"}`,
		},
		{
			Name:             "rejects checkout without a selection",
			Method:           "POST",
			URL:              "/movies/m1/checkout",
			Cookies:          otherCookies,
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"message": "no seats selected"}`,
		},
		{
			Name:           "still sells the free seats",
			Method:         "POST",
			URL:            "/movies/m1/selection/seats",
			Body:           strings.NewReader(`{"seatId": "A2"}`),
			Cookies:        otherCookies,
			ExpectedStatus: http.StatusOK,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func seatAvailability(response api.SeatMapResponse) map[string]bool {
	availability := make(map[string]bool)

	for _, row := range response.SeatRows {
		for _, seat := range row.Seats {
			availability[seat.Id] = seat.Available
		}
	}

	return availability
}

// bookSeat drives a full select-and-checkout round through the API.
func bookSeat(t testing.TB, app *TestApp, cookies []*http.Cookie, movieID, seatID string) {
	req, err := prepareRequest(
		"POST",
		"/movies/"+movieID+"/selection/seats",
		strings.NewReader(`{"seatId": "`+seatID+`"}`),
		nil,
		cookies,
	)
	require.NoError(t, err)

	rec := newRecorderFor(app, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req, err = prepareRequest("POST", "/movies/"+movieID+"/checkout", nil, nil, cookies)
	require.NoError(t, err)

	rec = newRecorderFor(app, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}
