package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestResolverConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ResolverConfig
		wantErr error
	}{
		{
			name:   "single category disk",
			config: ResolverConfig{Category: intPtr(11), Disk: &DiskConfig{Root: "/data"}},
		},
		{
			name:   "range github",
			config: ResolverConfig{Range: &Range{From: 20, To: 29}, GitHub: &GitHubConfig{Area: 20}},
		},
		{
			name:   "range object store",
			config: ResolverConfig{Range: &Range{From: 0, To: 99}, ObjectStore: &ObjectStoreTarget{Profile: "default"}},
		},
		{
			name:    "no constraint",
			config:  ResolverConfig{Disk: &DiskConfig{Root: "/data"}},
			wantErr: ErrConstraintMissing,
		},
		{
			name:    "both constraints",
			config:  ResolverConfig{Category: intPtr(1), Range: &Range{From: 0, To: 9}, Disk: &DiskConfig{Root: "/data"}},
			wantErr: ErrConstraintAmbiguous,
		},
		{
			name:    "reversed range",
			config:  ResolverConfig{Range: &Range{From: 29, To: 20}, Disk: &DiskConfig{Root: "/data"}},
			wantErr: ErrConstraintRange,
		},
		{
			name:    "category out of range",
			config:  ResolverConfig{Category: intPtr(100), Disk: &DiskConfig{Root: "/data"}},
			wantErr: ErrConstraintRange,
		},
		{
			name:    "no backend",
			config:  ResolverConfig{Category: intPtr(11)},
			wantErr: ErrBackendMissing,
		},
		{
			name: "two backends",
			config: ResolverConfig{
				Category: intPtr(11),
				Disk:     &DiskConfig{Root: "/data"},
				GitHub:   &GitHubConfig{Area: 10},
			},
			wantErr: ErrBackendMissing,
		},
		{
			name:    "empty disk root",
			config:  ResolverConfig{Category: intPtr(11), Disk: &DiskConfig{}},
			wantErr: ErrBackendIncomplete,
		},
		{
			name:    "empty profile",
			config:  ResolverConfig{Category: intPtr(11), ObjectStore: &ObjectStoreTarget{}},
			wantErr: ErrBackendIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{}
	assert.ErrorIs(t, cfg.Validate(), ErrIndexPathEmpty)

	cfg = Config{
		IndexPath: "/tmp/index.json",
		Resolvers: []ResolverConfig{
			{Category: intPtr(11), Disk: &DiskConfig{Root: "/data"}},
			{Category: intPtr(12)},
		},
	}
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrBackendMissing)
	assert.Contains(t, err.Error(), "resolver 1")

	cfg.Resolvers = cfg.Resolvers[:1]
	assert.NoError(t, cfg.Validate())
}

func TestConfigOverlaps(t *testing.T) {
	cfg := Config{
		IndexPath: "/tmp/index.json",
		Resolvers: []ResolverConfig{
			{Category: intPtr(11), Disk: &DiskConfig{Root: "/a"}},
			{Range: &Range{From: 10, To: 19}, Disk: &DiskConfig{Root: "/b"}},
			{Range: &Range{From: 20, To: 29}, GitHub: &GitHubConfig{Area: 20}},
			{Category: intPtr(25), Disk: &DiskConfig{Root: "/c"}},
		},
	}

	assert.Equal(t, []Overlap{{First: 0, Second: 1}, {First: 2, Second: 3}}, cfg.Overlaps())
}

func TestConstraint(t *testing.T) {
	single := ResolverConfig{Category: intPtr(11)}.Constraint()
	assert.True(t, single.Matches(11))
	assert.False(t, single.Matches(12))
	assert.Equal(t, "11", single.String())

	rng := ResolverConfig{Range: &Range{From: 20, To: 29}}.Constraint()
	assert.True(t, rng.Matches(20))
	assert.True(t, rng.Matches(29))
	assert.False(t, rng.Matches(30))
	assert.Equal(t, "20..29", rng.String())
}
