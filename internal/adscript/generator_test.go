package adscript

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/maltedev/dealer-ad-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCompleter struct {
	mock.Mock
	mu      sync.Mutex
	prompts []string
}

func (m *MockCompleter) ChatCompletion(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) SaveBatch(ctx context.Context, batch *Batch) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}

func testVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:    "vehicle-0",
		Year:  "2021",
		Make:  "Ford",
		Model: "F-150",
		Trim:  "XLT",
		Price: "$38,500",
	}
}

func newTestGenerator(c Completer, s Store) *Generator {
	g := NewGenerator(c, s, nil)
	g.shuffle = func([]combination) {}
	g.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return g
}

func TestGenerator_Generate(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("ChatCompletion", mock.Anything, mock.Anything).Return("\n  Built tough. Priced right.  \n", nil)

	g := newTestGenerator(completer, nil)

	batch, err := g.Generate(context.Background(), Request{
		Vehicle:        testVehicle(),
		DealershipName: "Joe's Motors",
		AdTypes:        []AdType{AdTypeFacebook},
	})
	require.NoError(t, err)

	require.Len(t, batch.Scripts, 5)
	for i, script := range batch.Scripts {
		assert.Equal(t, AdTypeFacebook, script.Type)
		assert.Equal(t, "Facebook Ad for "+Audiences[i].Name, script.Title)
		assert.Equal(t, "Built tough. Priced right.", script.Script)
		assert.Equal(t, Audiences[i].Name, script.TargetAudience)
		assert.Equal(t, Audiences[i].Tone, script.Tone)
		assert.Equal(t, "Visit Joe's Motors today!", script.CallToAction)
	}

	assert.Equal(t, "Joe's Motors", batch.DealershipName)
	assert.Equal(t, "F-150", batch.Vehicle.Model)
	assert.Equal(t, time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), batch.CreatedAt)
	assert.NotEmpty(t, batch.ID)
	completer.AssertNumberOfCalls(t, "ChatCompletion", 5)
}

func TestGenerator_Generate_CapsScriptCount(t *testing.T) {
	tests := []struct {
		name     string
		adTypes  []AdType
		expected int
	}{
		{name: "one type", adTypes: []AdType{AdTypeEmail}, expected: 5},
		{name: "three types", adTypes: []AdType{AdTypeYouTube, AdTypeFacebook, AdTypeRadio30}, expected: 5},
		{name: "all types", adTypes: []AdType{AdTypeYouTube, AdTypeTikTok, AdTypeRadio30, AdTypeRadio60, AdTypeFacebook, AdTypeInstagram, AdTypeEmail}, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			completer.On("ChatCompletion", mock.Anything, mock.Anything).Return("ad", nil)

			g := NewGenerator(completer, nil, nil)
			batch, err := g.Generate(context.Background(), Request{
				Vehicle:        testVehicle(),
				DealershipName: "Joe's Motors",
				AdTypes:        tt.adTypes,
			})
			require.NoError(t, err)
			assert.Len(t, batch.Scripts, tt.expected)

			seen := make(map[string]bool)
			for _, s := range batch.Scripts {
				assert.False(t, seen[s.Title], "duplicate combination %q", s.Title)
				seen[s.Title] = true
			}
		})
	}
}

func TestGenerator_Generate_KeepsShuffledOrder(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("ChatCompletion", mock.Anything, mock.Anything).Return("ad", nil)

	g := newTestGenerator(completer, nil)
	g.shuffle = func(c []combination) {
		for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
			c[i], c[j] = c[j], c[i]
		}
	}

	batch, err := g.Generate(context.Background(), Request{
		Vehicle:        testVehicle(),
		DealershipName: "Joe's Motors",
		AdTypes:        []AdType{AdTypeYouTube, AdTypeEmail},
	})
	require.NoError(t, err)

	require.Len(t, batch.Scripts, 5)
	assert.Equal(t, "Sales Email for Budget Conscious", batch.Scripts[0].Title)
	assert.Equal(t, "Sales Email for First-Time Buyers", batch.Scripts[4].Title)
}

func TestGenerator_Generate_Prompt(t *testing.T) {
	completer := new(MockCompleter)
	completer.On("ChatCompletion", mock.Anything, mock.Anything).Return("ad", nil)

	g := newTestGenerator(completer, nil)
	_, err := g.Generate(context.Background(), Request{
		Vehicle:        testVehicle(),
		DealershipName: "Joe's Motors",
		AdTypes:        []AdType{AdTypeRadio30},
	})
	require.NoError(t, err)

	var prompt string
	for _, p := range completer.prompts {
		if strings.Contains(p, "TARGET AUDIENCE: Families") {
			prompt = p
		}
	}
	require.NotEmpty(t, prompt)

	assert.Contains(t, prompt, "Create a 30-Second Radio Spot for the following vehicle:")
	assert.Contains(t, prompt, "VEHICLE: 2021 Ford F-150. XLT trim. priced at $38,500")
	assert.Contains(t, prompt, "DEALERSHIP: Joe's Motors")
	assert.Contains(t, prompt, "TARGET AUDIENCE: Families - Parents with kids, prioritize safety, space, and reliability")
	assert.Contains(t, prompt, "INSTRUCTIONS: Write a 30-second radio ad (approximately 75 words).")
	assert.True(t, strings.HasSuffix(prompt, "no additional commentary or explanations.\n"))
}

func TestGenerator_Generate_InvalidRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "missing vehicle",
			req:     Request{DealershipName: "Joe's", AdTypes: []AdType{AdTypeEmail}},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "missing dealership",
			req:     Request{Vehicle: testVehicle(), DealershipName: "  ", AdTypes: []AdType{AdTypeEmail}},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "no ad types",
			req:     Request{Vehicle: testVehicle(), DealershipName: "Joe's"},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "unknown ad type",
			req:     Request{Vehicle: testVehicle(), DealershipName: "Joe's", AdTypes: []AdType{"billboard"}},
			wantErr: ErrUnknownAdType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := new(MockCompleter)
			g := newTestGenerator(completer, nil)

			batch, err := g.Generate(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, batch)
			completer.AssertNotCalled(t, "ChatCompletion", mock.Anything, mock.Anything)
		})
	}
}

func TestGenerator_Generate_AllOrNothing(t *testing.T) {
	upstream := errors.New("Venice API error: overloaded")

	completer := new(MockCompleter)
	completer.On("ChatCompletion", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "TARGET AUDIENCE: Luxury Seekers")
	})).Return("", upstream)
	completer.On("ChatCompletion", mock.Anything, mock.Anything).Return("ad", nil)

	store := new(MockStore)
	g := newTestGenerator(completer, store)

	batch, err := g.Generate(context.Background(), Request{
		Vehicle:        testVehicle(),
		DealershipName: "Joe's Motors",
		AdTypes:        []AdType{AdTypeInstagram},
	})

	assert.Nil(t, batch)
	assert.ErrorIs(t, err, upstream)
	store.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
}

func TestGenerator_Generate_Store(t *testing.T) {
	t.Run("saves batch", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("ChatCompletion", mock.Anything, mock.Anything).Return("ad", nil)

		store := new(MockStore)
		store.On("SaveBatch", mock.Anything, mock.MatchedBy(func(b *Batch) bool {
			return len(b.Scripts) == 5 && b.DealershipName == "Joe's Motors"
		})).Return(nil)

		_, err := newTestGenerator(completer, store).Generate(context.Background(), Request{
			Vehicle:        testVehicle(),
			DealershipName: "Joe's Motors",
			AdTypes:        []AdType{AdTypeTikTok},
		})
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("store failure does not fail the request", func(t *testing.T) {
		completer := new(MockCompleter)
		completer.On("ChatCompletion", mock.Anything, mock.Anything).Return("ad", nil)

		store := new(MockStore)
		store.On("SaveBatch", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

		batch, err := newTestGenerator(completer, store).Generate(context.Background(), Request{
			Vehicle:        testVehicle(),
			DealershipName: "Joe's Motors",
			AdTypes:        []AdType{AdTypeTikTok},
		})
		require.NoError(t, err)
		assert.Len(t, batch.Scripts, 5)
	})
}

func TestLookupFormat(t *testing.T) {
	f, ok := LookupFormat(AdTypeEmail)
	require.True(t, ok)
	assert.Equal(t, "Sales Email", f.Name)

	_, ok = LookupFormat("billboard")
	assert.False(t, ok)
}
