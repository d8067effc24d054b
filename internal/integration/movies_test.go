package integration_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/GovindharajM27/ticketbookingapp/api"
)

type MoviesTestSuite struct {
	BaseSuite
}

func TestMoviesSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(MoviesTestSuite))
}

func (s *MoviesTestSuite) TestGetMovies() {
	scenarios := []Scenario{
		{
			Name:           "lists the whole catalog with default paging",
			Method:         "GET",
			URL:            "/movies",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var response api.MovieListResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&response))

				require.Len(t, response.Movies, 8)
				require.NotNil(t, response.Metadata)
				require.Equal(t, 8, response.Metadata.TotalRecords)
				require.Equal(t, 1, response.Metadata.CurrentPage)
				require.Equal(t, TestMovieID, response.Movies[0].Id)
				require.Equal(t, TestMovieTitle, response.Movies[0].Name)
			},
		},
		{
			Name:           "filters the catalog by search term",
			Method:         "GET",
			URL:            "/movies?term=monsoon",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"movies": [
					{
						"id": "m2",
						"name": "The Last Monsoon",
						"genre": "Drama",
						"price": "180",
						"date": "2026-09-05",
						"time": "4:00 PM",
						"posterUrl": "https://images.ticketbooking.app/posters/the-last-monsoon.jpg"
					}
				],
				"metadata": {
					"currentPage": 1,
					"firstPage": 1,
					"lastPage": 1,
					"pageSize": 10,
					"totalRecords": 1
				}
			}`,
		},
		{
			Name:           "matches genres as well as titles",
			Method:         "GET",
			URL:            "/movies?term=sci-fi",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var response api.MovieListResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&response))

				require.NotEmpty(t, response.Movies)
				for _, movie := range response.Movies {
					require.Equal(t, "Sci-Fi", movie.Genre)
				}
			},
		},
		{
			Name:           "returns an empty page past the end of the catalog",
			Method:         "GET",
			URL:            "/movies?page=5&pageSize=10",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				var response api.MovieListResponse
				require.NoError(t, json.NewDecoder(res.Body).Decode(&response))

				require.Empty(t, response.Movies)
				require.Equal(t, 8, response.Metadata.TotalRecords)
			},
		},
		{
			Name:           "rejects an out-of-range page size",
			Method:         "GET",
			URL:            "/movies?pageSize=1000",
			ExpectedStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *MoviesTestSuite) TestGetMovieById() {
	scenarios := []Scenario{
		{
			Name:           "returns the movie details",
			Method:         "GET",
			URL:            "/movies/m2",
			ExpectedStatus: http.StatusOK,
			ExpectedResponse: `{
				"id": "m2",
				"name": "The Last Monsoon",
				"genre": "Drama",
				"description": "Three generations of a coastal family confront the storm that changed everything, told across one unforgettable season of rain.",
				"price": "180",
				"date": "2026-09-05",
				"time": "4:00 PM",
				"posterUrl": "https://images.ticketbooking.app/posters/the-last-monsoon.jpg"
			}`,
		},
		{
			Name:             "returns 404 for an unknown movie",
			Method:           "GET",
			URL:              "/movies/unknown",
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "The requested resource not found"}`,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}
