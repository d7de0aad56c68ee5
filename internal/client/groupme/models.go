package groupme

import "encoding/json"

// envelope wraps every GroupMe v3 response.
type envelope struct {
	Response json.RawMessage `json:"response"`
	Meta     struct {
		Code   int      `json:"code"`
		Errors []string `json:"errors"`
	} `json:"meta"`
}

type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Member struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
	GUID     string `json:"guid,omitempty"`
}

type Group struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	CreatorUserID string   `json:"creator_user_id"`
	CreatedAt     int64    `json:"created_at"`
	Members       []Member `json:"members"`
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Share       bool   `json:"share"`
}

type updateMembershipRequest struct {
	Membership struct {
		Nickname string `json:"nickname"`
	} `json:"membership"`
}

type newMember struct {
	Nickname    string `json:"nickname"`
	PhoneNumber string `json:"phone_number"`
	GUID        string `json:"guid"`
}

type addMembersRequest struct {
	Members []newMember `json:"members"`
}

type addMembersResponse struct {
	ResultsID string `json:"results_id"`
}

type membersResultsResponse struct {
	Members []Member `json:"members"`
}

type ownerChange struct {
	GroupID string `json:"group_id"`
	OwnerID string `json:"owner_id"`
	Status  string `json:"status,omitempty"`
}

type changeOwnersRequest struct {
	Requests []ownerChange `json:"requests"`
}

type changeOwnersResponse struct {
	Results []ownerChange `json:"results"`
}

type messageRequest struct {
	Message struct {
		SourceGUID string `json:"source_guid"`
		Text       string `json:"text"`
	} `json:"message"`
}
