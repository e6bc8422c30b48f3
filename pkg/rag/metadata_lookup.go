package rag

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// VideoInfo is one catalog entry for listing.
type VideoInfo struct {
	VideoID      string
	YoutubeID    string
	Title        string
	ChannelTitle string
	Duration     int
	ChunkCount   int
}

// VideoCatalog lists a user's ingested videos. Implemented by the
// persistence layer.
type VideoCatalog interface {
	ListVideos(ctx context.Context, userID string) ([]VideoInfo, error)
}

// MetadataLookupNode answers "what videos do I have" by listing the user's
// catalog as an HTML response.
type MetadataLookupNode struct {
	catalog VideoCatalog
	logger  *log.Logger
}

func NewMetadataLookupNode(catalog VideoCatalog, logger *log.Logger) *MetadataLookupNode {
	return &MetadataLookupNode{catalog: catalog, logger: logger}
}

func (n *MetadataLookupNode) Name() string { return "metadata_lookup" }

func (n *MetadataLookupNode) Run(ctx context.Context, state *GraphState) (*GraphState, error) {
	if state.UserID == "" {
		state.Response = "<p>I could not tell whose library to look in. Please sign in and try again.</p>"
		state.MergeMetadata(Metadata{"video_count": 0})
		return state, nil
	}

	videos, err := n.catalog.ListVideos(ctx, state.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}

	if len(videos) == 0 {
		state.Response = "<p>Your library is empty. Paste a YouTube link and I will load the video for you.</p>"
		state.MergeMetadata(Metadata{
			"video_count":   0,
			"response_type": "video_list",
		})
		return state, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<p>You have <b>%d</b> video(s) loaded:</p><ul>", len(videos)))
	for _, v := range videos {
		sb.WriteString("<li><b>")
		sb.WriteString(v.Title)
		sb.WriteString("</b>")
		if v.ChannelTitle != "" {
			sb.WriteString(" — ")
			sb.WriteString(v.ChannelTitle)
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")

	state.Response = sb.String()
	state.MergeMetadata(Metadata{
		"video_count":   len(videos),
		"response_type": "video_list",
	})
	n.logger.Printf("[metadata_lookup] user=%s videos=%d", state.UserID, len(videos))
	return state, nil
}
