package app

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/hitoshi/teamcal/internal/config"
	"github.com/hitoshi/teamcal/internal/database"
	"github.com/hitoshi/teamcal/internal/model"
	"github.com/hitoshi/teamcal/internal/repository"
)

// defaultEventTypes はreset時に投入されるイベント種別のシードデータ。
type seedEventType struct {
	Name  string
	Color string
}

var defaultEventTypes = []seedEventType{
	{Name: "Competition", Color: "#e74c3c"},
	{Name: "Training", Color: "#3498db"},
	{Name: "Meeting", Color: "#2ecc71"},
	{Name: "Outreach", Color: "#f1c40f"},
	{Name: "Other", Color: "#95a5a6"},
}

// resetOptions はresetサブコマンドのフラグを保持する。
type resetOptions struct {
	Yes    bool
	Sample bool
}

// parseResetFlags はresetサブコマンドのフラグを解析する。
func parseResetFlags(args []string) (*resetOptions, error) {
	opts := &resetOptions{}

	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	fs.BoolVar(&opts.Yes, "yes", false, "確認プロンプトをスキップする")
	fs.BoolVar(&opts.Yes, "y", false, "--yes の省略形")
	fs.BoolVar(&opts.Sample, "sample", false, "サンプルイベントを投入する")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// runReset はスキーマを初期化し、デフォルトのイベント種別を投入する。
// 全データが失われるため、確認プロンプトを挟む。
func runReset(cfg *config.Config, w io.Writer, stdin io.Reader, args []string) error {
	opts, err := parseResetFlags(args)
	if err != nil {
		return err
	}

	if !opts.Yes {
		fmt.Fprintln(w, "警告: 全てのイベント、メンバー、出欠回答が削除されます。")
		if !confirm(w, stdin, "データベースを初期化しますか?") {
			fmt.Fprintln(w, "中止しました。")
			return nil
		}
	}

	if err := database.ResetSchema(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("スキーマの初期化に失敗しました: %w", err)
	}
	slog.Info("schema reset completed")

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// 同期が残したバックアップテーブルも初期化の対象
	if dropped, err := database.DropPersonSnapshots(ctx, db); err != nil {
		return fmt.Errorf("バックアップテーブルの削除に失敗しました: %w", err)
	} else if dropped > 0 {
		fmt.Fprintf(w, "バックアップテーブルを%d件削除しました。\n", dropped)
	}

	eventTypeRepo := repository.NewPostgresEventTypeRepo(db)

	// デフォルトのイベント種別を投入する
	typeIDs := make(map[string]int64, len(defaultEventTypes))
	for _, seed := range defaultEventTypes {
		et := &model.EventType{Name: seed.Name, Color: seed.Color}
		if err := eventTypeRepo.Create(ctx, et); err != nil {
			return fmt.Errorf("イベント種別の投入に失敗しました: %s: %w", seed.Name, err)
		}
		typeIDs[seed.Name] = et.ID
	}
	fmt.Fprintf(w, "イベント種別を%d件投入しました。\n", len(defaultEventTypes))

	if opts.Sample {
		if err := seedSampleEvents(ctx, db, typeIDs); err != nil {
			return err
		}
		fmt.Fprintln(w, "サンプルイベントを投入しました。")
	}

	fmt.Fprintln(w, "初期化が完了しました。")
	return nil
}

// seedSampleEvents は動作確認用のサンプルイベントを投入する。
func seedSampleEvents(ctx context.Context, db *sql.DB, typeIDs map[string]int64) error {
	eventRepo := repository.NewPostgresEventRepo(db)

	trainingID := typeIDs["Training"]
	meetingID := typeIDs["Meeting"]

	samples := []*model.Event{
		{
			Title:           "Weekly Training",
			Description:     "<p>通常練習</p>",
			Date:            "2026-09-05",
			StartTime:       "18:00:00",
			DurationMinutes: 120,
			EventTypeID:     &trainingID,
			Location:        "Workshop",
		},
		{
			Title:           "Kickoff Meeting",
			Description:     "<p>シーズンキックオフ</p>",
			Date:            "2026-09-12",
			StartTime:       "10:00:00",
			DurationMinutes: 180,
			EventTypeID:     &meetingID,
			Location:        "Main Hall",
		},
	}

	for _, e := range samples {
		if err := eventRepo.Create(ctx, e); err != nil {
			return fmt.Errorf("サンプルイベントの投入に失敗しました: %s: %w", e.Title, err)
		}
	}
	return nil
}
