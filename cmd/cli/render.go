package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/and161185/evote/internal/api"
)

func printCandidates(w io.Writer, cs []api.Candidate, withEmail bool) {
	if len(cs) == 0 {
		color.New(color.FgYellow).Fprintln(w, "No candidates.")
		return
	}
	table := tablewriter.NewWriter(w)
	header := []string{"ID", "Candidate ID", "Name", "Tagline", "Status", "Votes"}
	if withEmail {
		header = append(header, "Email")
	}
	table.SetHeader(header)
	for _, c := range cs {
		row := []string{c.ID, c.CandidateID, c.Name, c.Tagline, c.Status, strconv.FormatInt(c.Votes, 10)}
		if withEmail {
			row = append(row, c.Email)
		}
		table.Append(row)
	}
	table.Render()
}

func printResults(w io.Writer, r api.Results) {
	if r.VotingEnded {
		color.New(color.FgGreen).Fprintln(w, "Final results")
	} else {
		color.New(color.FgYellow).Fprintln(w, "Live results (voting has not ended)")
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Candidate ID", "Name", "Tagline", "Votes"})
	for i, s := range r.Candidates {
		table.Append([]string{strconv.Itoa(i + 1), s.CandidateID, s.Name, s.Tagline, strconv.FormatInt(s.Votes, 10)})
	}
	table.Render()
}

func printStatus(w io.Writer, vs api.VotingStatus) {
	c := color.New(color.FgYellow)
	switch vs.Status {
	case "open":
		c = color.New(color.FgGreen, color.Bold)
	case "closed":
		c = color.New(color.FgRed)
	}
	c.Fprintln(w, vs.Message)
	printTimings(w, vs.VotingTimings)
}

func printTimings(w io.Writer, t api.VotingTimings) {
	fmt.Fprintf(w, "start: %s\nend:   %s\n", fmtTime(t.VotingStartTime), fmtTime(t.VotingEndTime))
}

func printAccount(w io.Writer, a api.Account) {
	switch {
	case a.Voter != nil:
		voted := "no"
		if a.Voter.HasVoted {
			voted = "yes"
		}
		fmt.Fprintf(w, "voter %s (%s, %s) voted: %s\n", a.Voter.VoterID, a.Voter.Name, a.Voter.Email, voted)
	case a.Candidate != nil:
		fmt.Fprintf(w, "candidate %s (%s, %s) status: %s\n", a.Candidate.CandidateID, a.Candidate.Name, a.Candidate.Email, a.Candidate.Status)
		fmt.Fprintf(w, "tagline: %s\npitch:   %s\n", a.Candidate.Tagline, a.Candidate.Pitch)
	case a.Admin != nil:
		fmt.Fprintf(w, "admin %s\n", a.Admin.Email)
	}
}

func fmtTime(t *time.Time) string {
	if t == nil {
		return "not set"
	}
	return t.Local().Format(time.RFC1123)
}

func success(w io.Writer, format string, args ...any) {
	color.New(color.FgGreen).Fprintf(w, format+"\n", args...)
}
