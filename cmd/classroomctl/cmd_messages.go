package main

import (
	"github.com/spf13/cobra"

	"github.com/noah-isme/classroom-core/internal/dto"
	"github.com/noah-isme/classroom-core/internal/models"
)

var (
	messageName string
	messageFrom string
	messageBody string
	messageRead bool
)

var messagesCmd = &cobra.Command{
	Use:   "messages",
	Short: "Contact form messages",
}

var messagesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List received messages, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, _ := current.site.Site()
		return render(cmd.OutOrStdout(), outputFormat, doc.ContactMessages)
	},
}

var messagesSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit the public contact form",
	RunE: func(cmd *cobra.Command, args []string) error {
		msg, err := current.site.AddContactMessage(cmd.Context(), dto.ContactMessageInput{
			Name:    messageName,
			Email:   messageFrom,
			Message: messageBody,
		})
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), outputFormat, msg)
	},
}

var messagesMarkCmd = &cobra.Command{
	Use:   "mark <message-id>",
	Short: "Mark a message read, or unread with --read=false",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		status := models.MessageStatusUnread
		if messageRead {
			status = models.MessageStatusRead
		}
		return current.site.UpdateContactMessageStatus(cmd.Context(), current.session, id, status)
	},
}

var messagesDeleteCmd = &cobra.Command{
	Use:   "delete <message-id>",
	Short: "Delete a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return current.site.DeleteContactMessage(cmd.Context(), current.session, id)
	},
}

func init() {
	messagesSendCmd.Flags().StringVar(&messageName, "name", "", "Sender name")
	messagesSendCmd.Flags().StringVar(&messageFrom, "email", "", "Sender email")
	messagesSendCmd.Flags().StringVar(&messageBody, "message", "", "Message text")
	messagesMarkCmd.Flags().BoolVar(&messageRead, "read", true, "Mark as read")

	messagesCmd.AddCommand(messagesListCmd, messagesSendCmd, messagesMarkCmd, messagesDeleteCmd)
}
