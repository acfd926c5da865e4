package commonModels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudience_VisibleTo(t *testing.T) {
	tests := []struct {
		tag       Audience
		requester Audience
		visible   bool
	}{
		{AudienceParent, AudienceParent, true},
		{AudienceParent, AudienceCoach, false},
		{AudienceCoach, AudienceCoach, true},
		{AudienceCoach, AudienceParent, false},
		{AudienceBoth, AudienceParent, true},
		{AudienceBoth, AudienceCoach, true},
		{Audience("admin"), AudienceParent, false},
		{AudienceBoth, AudienceBoth, true},
		{AudienceParent, Audience(""), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.visible, tt.tag.VisibleTo(tt.requester), "%s visible to %s", tt.tag, tt.requester)
	}
}

func TestAudience_QATagsAreVisible(t *testing.T) {
	for _, requester := range []Audience{AudienceParent, AudienceCoach} {
		tags := requester.QATags()
		assert.Len(t, tags, 2)
		for _, tag := range tags {
			assert.True(t, tag.VisibleTo(requester))
		}
	}
	assert.Nil(t, AudienceBoth.QATags())
}

func TestPartition_IsolationThroughAudience(t *testing.T) {
	assert.True(t, PartitionShared.Audience().VisibleTo(AudienceParent))
	assert.True(t, PartitionShared.Audience().VisibleTo(AudienceCoach))
	assert.False(t, PartitionCoach.Audience().VisibleTo(AudienceParent))
	assert.False(t, PartitionParent.Audience().VisibleTo(AudienceCoach))
	assert.Equal(t, PartitionParent, AudienceParent.OwnPartition())
	assert.Equal(t, PartitionCoach, AudienceCoach.OwnPartition())
	assert.Equal(t, Partition(""), AudienceBoth.OwnPartition())
}

func TestParseRequester(t *testing.T) {
	a, err := ParseRequester("")
	assert.NoError(t, err)
	assert.Equal(t, AudienceParent, a)

	a, err = ParseRequester("coach")
	assert.NoError(t, err)
	assert.Equal(t, AudienceCoach, a)

	_, err = ParseRequester("both")
	assert.Error(t, err)
	_, err = ParseRequester("Coach")
	assert.Error(t, err)
}

func TestParsePartition(t *testing.T) {
	for _, raw := range []string{"parent", "coach", "shared"} {
		p, err := ParsePartition(raw)
		assert.NoError(t, err)
		assert.Equal(t, Partition(raw), p)
	}
	_, err := ParsePartition("both")
	assert.Error(t, err)
}
