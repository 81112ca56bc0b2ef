package activities

import "go.temporal.io/sdk/worker"

func Register(w worker.Worker, a *Activities) {
	w.RegisterActivity(a.ExtractAudioActivity)
	w.RegisterActivity(a.TranscribeActivity)
	w.RegisterActivity(a.BuildIndexActivity)
	w.RegisterActivity(a.UpdateVideoStatusActivity)
	w.RegisterActivity(a.CleanupAudioActivity)
}
