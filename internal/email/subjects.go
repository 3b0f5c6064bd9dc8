package email

const subjectFollowUpReminderFmt = "Follow-up reminder: %s with %s at %s"
